package domain

// Evaluate decides whether either side has won.
// Unassigned players count for neither side.
func Evaluate(players map[string]*Player) Side {
	mafia, others := AliveCounts(players)

	if mafia == 0 {
		return SideTown
	}
	if mafia >= others {
		return SideMafia
	}
	return SideNone
}

// AliveCounts returns the number of living Mafiosi and living non-Mafiosi
func AliveCounts(players map[string]*Player) (mafia, others int) {
	for _, p := range players {
		if !p.Alive || !p.IsAssigned() {
			continue
		}
		if p.IsMafioso() {
			mafia++
		} else {
			others++
		}
	}
	return mafia, others
}
