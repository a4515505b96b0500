package catalog

// rawPatchData returns the official Patchwork patch set: index 0 is the
// 1x1 special-patch shape (zero cost, zero income, awarded rather than
// bought), indices 1..33 are the 33 regular patches with their
// real-world button costs, time costs, income, and shapes.
func rawPatchData() [NumRegularPatches + 1]Patch {
	shapes := [NumRegularPatches + 1]struct {
		buttonCost, timeCost, income int
		shape                        [][]bool
	}{
		0:  {0, 0, 0, s("1")},
		1:  {10, 4, 3, s("100", "110", "011")},
		2:  {5, 3, 1, s("01110", "11111", "01110")},
		3:  {8, 6, 3, s("011", "011", "110")},
		4:  {7, 6, 3, s("011", "110")},
		5:  {4, 2, 0, s("10", "11", "11", "01")},
		6:  {2, 1, 0, s("010", "011", "110", "010")},
		7:  {2, 3, 0, s("101", "111", "101")},
		8:  {2, 2, 0, s("10", "11", "11")},
		9:  {6, 5, 2, s("11", "11")},
		10: {2, 3, 1, s("01", "01", "11", "10")},
		11: {1, 2, 0, s("0001", "1111", "1000")},
		12: {10, 5, 3, s("11", "11", "01", "01")},
		13: {7, 2, 2, s("010", "010", "010", "111")},
		14: {4, 6, 2, s("01", "01", "11")},
		15: {7, 4, 2, s("0110", "1111")},
		16: {1, 5, 1, s("11", "01", "01", "11")},
		17: {5, 4, 2, s("010", "111", "010")},
		18: {10, 3, 2, s("1000", "1111")},
		19: {4, 2, 1, s("001", "111")},
		20: {1, 4, 1, s("00100", "11111", "00100")},
		21: {1, 3, 0, s("01", "11")},
		22: {1, 2, 0, s("101", "111")},
		23: {3, 1, 0, s("01", "11")},
		24: {2, 2, 0, s("01", "11", "01")},
		25: {2, 2, 0, s("111")},
		26: {3, 2, 1, s("01", "11", "10")},
		27: {7, 1, 1, s("11111")},
		28: {3, 3, 1, s("1111")},
		29: {5, 5, 2, s("010", "010", "111")},
		30: {3, 6, 2, s("010", "111", "101")},
		31: {3, 4, 1, s("0010", "1111")},
		32: {0, 3, 1, s("0100", "1111", "0100")},
		33: {2, 1, 0, s("11")},
	}

	var out [NumRegularPatches + 1]Patch
	for id, d := range shapes {
		out[id] = Patch{
			ID:           id,
			ButtonCost:   d.buttonCost,
			TimeCost:     d.timeCost,
			ButtonIncome: d.income,
			Shape:        d.shape,
			Area:         shapeArea(d.shape),
		}
	}
	return out
}

// s builds a shape matrix from row strings of '0'/'1' characters.
func s(rows ...string) [][]bool {
	out := make([][]bool, len(rows))
	for i, row := range rows {
		out[i] = make([]bool, len(row))
		for j, ch := range row {
			out[i][j] = ch == '1'
		}
	}
	return out
}
