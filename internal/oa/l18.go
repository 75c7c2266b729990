package oa

// l18Matrix is the standard L18(2^1 3^7) table (18 runs: column 0 is
// 2-level, columns 1-7 are 3-level), reproduced from the published
// Taguchi/Phadke triangular tables. Unlike L9/L25/L27 this mixed-level array
// has no clean GF(p) generator, so it is supplied as literal data, same as
// spec.md directs for "all other arrays."
var l18Matrix = [][]int{
	{1, 1, 1, 1, 1, 1, 1, 1},
	{1, 1, 2, 2, 2, 2, 2, 2},
	{1, 1, 3, 3, 3, 3, 3, 3},
	{1, 2, 1, 1, 2, 2, 3, 3},
	{1, 2, 2, 2, 3, 3, 1, 1},
	{1, 2, 3, 3, 1, 1, 2, 2},
	{1, 3, 1, 2, 1, 3, 2, 3},
	{1, 3, 2, 3, 2, 1, 3, 1},
	{1, 3, 3, 1, 3, 2, 1, 2},
	{2, 1, 1, 3, 3, 2, 2, 1},
	{2, 1, 2, 1, 1, 3, 3, 2},
	{2, 1, 3, 2, 2, 1, 1, 3},
	{2, 2, 1, 2, 3, 1, 3, 2},
	{2, 2, 2, 3, 1, 2, 1, 3},
	{2, 2, 3, 1, 2, 3, 2, 1},
	{2, 3, 1, 3, 2, 3, 1, 2},
	{2, 3, 2, 1, 3, 1, 2, 3},
	{2, 3, 3, 2, 1, 2, 3, 1},
}
