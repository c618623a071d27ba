package multiplier

// stage lists, for one adder or compressor, the source of each input port in
// port order: X1, X2 for ha; X1, X2, Cin for fa; X1, X2, X3, X4, Cin for ca.
// Sources are written "<instance>.<port>".
type stage struct {
	id      string
	sources []string
}

// reductionTree is the carry-save reduction of the 64 partial products.
func reductionTree() []stage {
	return []stage{
		{"ha_1", []string{"a1b0.Sum", "a0b1.Sum"}},
		{"fa_2", []string{"a2b0.Sum", "a1b1.Sum", "a0b2.Sum"}},
		{"ca_3", []string{"a3b0.Sum", "a2b1.Sum", "a1b2.Sum", "a0b3.Sum", "fa_2.Cout"}},
		{"ca_4", []string{"a4b0.Sum", "a3b1.Sum", "a2b2.Sum", "a1b3.Sum", "a0b4.Sum"}},
		{"ca_5", []string{"a5b0.Sum", "a4b1.Sum", "a3b2.Sum", "a2b3.Sum", "a1b4.Sum"}},
		{"ca_6", []string{"a6b0.Sum", "a5b1.Sum", "a4b2.Sum", "a3b3.Sum", "a2b4.Sum"}},
		{"ca_7", []string{"a7b0.Sum", "a6b1.Sum", "a5b2.Sum", "a4b3.Sum", "a3b4.Sum"}},
		{"ca_8", []string{"a7b1.Sum", "a6b2.Sum", "a5b3.Sum", "a4b4.Sum", "a3b5.Sum"}},
		{"ca_9", []string{"a7b2.Sum", "a6b3.Sum", "a5b4.Sum", "a4b5.Sum", "a3b6.Sum"}},
		{"ca_10", []string{"a7b3.Sum", "a6b4.Sum", "a5b5.Sum", "a4b6.Sum", "a3b7.Sum"}},
		{"ca_11", []string{"a7b4.Sum", "a6b5.Sum", "a5b6.Sum", "a4b7.Sum", "ca_10.Cout"}},
		{"ca_12", []string{"a7b5.Sum", "a6b6.Sum", "a5b7.Sum", "ca_11.Cout", "ca_11.Carry"}},
		{"ha_13", []string{"fa_2.Sum", "ha_1.Cout"}},
		{"ha_14", []string{"ca_3.Sum", "ha_13.Cout"}},
		{"fa_15", []string{"ca_4.Sum", "ca_3.Cout", "ca_3.Carry"}},
		{"ha_16", []string{"fa_15.Sum", "ha_14.Cout"}},
		{"ca_17", []string{"a0b5.Sum", "ca_5.Sum", "ca_4.Cout", "ca_4.Carry", "fa_15.Cout"}},
		{"ha_18", []string{"ca_17.Sum", "ha_16.Cout"}},
		{"ca_19", []string{"a1b5.Sum", "a0b6.Sum", "ca_6.Sum", "ca_5.Cout", "ca_5.Carry"}},
		{"fa_20", []string{"ca_19.Sum", "ca_17.Cout", "ca_17.Carry"}},
		{"ha_21", []string{"fa_20.Sum", "ha_18.Cout"}},
		{"ca_22", []string{"a2b5.Sum", "a1b6.Sum", "a0b7.Sum", "ca_7.Sum", "ca_6.Cout"}},
		{"ca_23", []string{"ca_22.Sum", "ca_6.Carry", "ca_19.Cout", "ca_19.Carry", "fa_20.Cout"}},
		{"ha_24", []string{"ca_23.Sum", "ha_21.Cout"}},
		{"ca_25", []string{"a2b6.Sum", "a1b7.Sum", "ca_8.Sum", "ca_7.Cout", "ca_7.Carry"}},
		{"ca_26", []string{"ca_25.Sum", "ca_22.Cout", "ca_22.Carry", "ca_23.Cout", "ca_23.Carry"}},
		{"ha_27", []string{"ca_26.Sum", "ha_24.Cout"}},
		{"ca_28", []string{"a2b7.Sum", "ca_9.Sum", "ca_8.Cout", "ca_8.Carry", "ca_25.Cout"}},
		{"ca_29", []string{"ca_28.Sum", "ca_25.Carry", "ca_26.Cout", "ca_26.Carry", "ha_27.Cout"}},
		{"ca_30", []string{"ca_10.Sum", "ca_9.Cout", "ca_9.Carry", "ca_28.Cout", "ca_28.Carry"}},
		{"fa_31", []string{"ca_30.Sum", "ca_29.Cout", "ca_29.Carry"}},
		{"ca_32", []string{"ca_11.Sum", "ca_10.Carry", "ca_30.Cout", "ca_30.Carry", "fa_31.Cout"}},
		{"fa_33", []string{"ca_12.Sum", "ca_32.Cout", "ca_32.Carry"}},
		{"ca_34", []string{"a7b6.Sum", "a6b7.Sum", "ca_12.Cout", "ca_12.Carry", "fa_33.Cout"}},
		{"fa_35", []string{"a7b7.Sum", "ca_34.Cout", "ca_34.Carry"}},
	}
}

// productBits maps y0..y15 to the port producing it.
func productBits() []string {
	return []string{
		"a0b0.Sum",
		"ha_1.Sum",
		"ha_13.Sum",
		"ha_14.Sum",
		"ha_16.Sum",
		"ha_18.Sum",
		"ha_21.Sum",
		"ha_24.Sum",
		"ha_27.Sum",
		"ca_29.Sum",
		"fa_31.Sum",
		"ca_32.Sum",
		"fa_33.Sum",
		"ca_34.Sum",
		"fa_35.Sum",
		"fa_35.Cout",
	}
}
