package dynamics

// CdFromDragPercent piecewise-linearly interpolates a signed drag command
// in [-1,+1] into the 5-entry drag coefficient table, where -1 maps to
// 0% air-brakes extension (table[0]) and +1 maps to 100% extension
// (table[4]).
func CdFromDragPercent(table [5]float32, dragPercent float32) float32 {
	if dragPercent < -1 {
		dragPercent = -1
	} else if dragPercent > 1 {
		dragPercent = 1
	}
	frac := (dragPercent + 1) / 2
	return lerpTable(table, frac)
}

// ExtensionFromCd is the piecewise-linear inverse of CdFromDragPercent's
// table lookup, returning an air-brakes extension fraction in [0,1] for a
// commanded Cd value.
func ExtensionFromCd(table [5]float32, cd float32) float32 {
	if cd <= table[0] {
		return 0
	}
	if cd >= table[4] {
		return 1
	}
	for i := 0; i < 4; i++ {
		if cd <= table[i+1] {
			span := table[i+1] - table[i]
			t := (cd - table[i]) / span
			return (float32(i) + t) / 4
		}
	}
	return 1
}

func lerpTable(table [5]float32, frac float32) float32 {
	if frac < 0 {
		frac = 0
	} else if frac > 1 {
		frac = 1
	}
	pos := frac * 4
	i := int(pos)
	if i >= 4 {
		i = 3
	}
	t := pos - float32(i)
	return table[i] + t*(table[i+1]-table[i])
}
