package oa

// GF(4) arithmetic for the L16(4^5) construction: elements {0,1,2,3}
// represent 0, 1, a, a+1 in GF(2)[x]/(x^2+x+1), i.e. GF(4) = {0,1,a,a^2}
// with a^2 = a+1. Addition is XOR (the additive group is (Z/2)^2);
// multiplication uses the standard GF(4) table.
var gf4Mul = [4][4]int{
	{0, 0, 0, 0},
	{0, 1, 2, 3},
	{0, 2, 3, 1},
	{0, 3, 1, 2},
}

func gf4Add(a, b int) int { return a ^ b }
func gf4Mul2(a, b int) int { return gf4Mul[a][b] }

// gf4Directions enumerates the (4^2-1)/(4-1) = 5 canonical directions
// through GF(4)^2, analogous to gfDirections but over the non-prime field.
func gf4Directions() [][2]int {
	elems := []int{0, 1, 2, 3}
	var dirs [][2]int
	seen := map[[2]int]bool{}
	for _, c0 := range elems {
		for _, c1 := range elems {
			if c0 == 0 && c1 == 0 {
				continue
			}
			// normalize: scale so first nonzero component is 1
			var lead, other int
			if c0 != 0 {
				inv := gf4Inverse(c0)
				lead, other = gf4Mul2(inv, c0), gf4Mul2(inv, c1)
			} else {
				inv := gf4Inverse(c1)
				lead, other = gf4Mul2(inv, c0), gf4Mul2(inv, c1)
			}
			key := [2]int{lead, other}
			if !seen[key] {
				seen[key] = true
				dirs = append(dirs, key)
			}
		}
	}
	return dirs
}

func gf4Inverse(a int) int {
	for x := 1; x < 4; x++ {
		if gf4Mul2(a, x) == 1 {
			return x
		}
	}
	return 1
}

// generateL16_4 builds the 16-run, 5-column, 4-level orthogonal array via two
// independent GF(4) base columns (row index split into two base-4 digits)
// plus one column per remaining canonical direction.
func generateL16_4() [][]int {
	dirs := gf4Directions()
	matrix := make([][]int, 16)
	for r := 0; r < 16; r++ {
		d0 := r / 4
		d1 := r % 4
		row := make([]int, len(dirs))
		for ci, dir := range dirs {
			row[ci] = gf4Add(gf4Mul2(dir[0], d0), gf4Mul2(dir[1], d1)) + 1
		}
		matrix[r] = row
	}
	return matrix
}

// l164MainColumns returns the 0-indexed columns carrying the two base digits
// directly, in priority order.
func l164MainColumns() []int {
	dirs := gf4Directions()
	cols := make([]int, 2)
	for i, want := range [][2]int{{1, 0}, {0, 1}} {
		for ci, dir := range dirs {
			if dir == want {
				cols[i] = ci
			}
		}
	}
	return cols
}
