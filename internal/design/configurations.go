package design

import "github.com/marijaaleksic/taguchi-engine/internal/model"

// GenerateConfigurations implements spec.md §4.2 "Generate configurations":
// for every OA row, look up each assigned factor's bound value for that
// row's symbol and return the resulting ParameterSettings.
func GenerateConfigurations(d model.OADesign, factors []model.Factor) ([]model.ParameterSettings, error) {
	byName := map[string]model.Factor{}
	for _, f := range factors {
		byName[f.Name] = f
	}

	out := make([]model.ParameterSettings, d.Runs())
	for r, row := range d.Matrix {
		settings := model.ParameterSettings{}
		for name, col := range d.ColumnAssignments {
			f, ok := byName[name]
			if !ok {
				continue // interaction pseudo-keys ("A*B", "A*B_comp2")
			}
			symbol := row[col]
			value, err := f.ValueAt(symbol)
			if err != nil {
				return nil, model.NewDesignError("run %d, factor %q: %v", r, name, err)
			}
			settings[name] = model.FactorSetting{Symbol: symbol, Value: value}
		}
		out[r] = settings
	}
	return out, nil
}
