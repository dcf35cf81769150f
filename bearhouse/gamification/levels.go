package gamification

// MaxLevel caps level progression.
const MaxLevel = 30

// LevelTable maps cumulative XP onto levels through an ascending threshold
// table, plus the display trimmings (titles, level-up rewards).
type LevelTable struct {
	// Thresholds[i] is the total XP required for level i+1; Thresholds[0]
	// is always 0.
	Thresholds []int
	Titles     []string
	Rewards    map[int]string
}

// NewDefaultLevelTable returns the production progression curve.
func NewDefaultLevelTable() *LevelTable {
	return &LevelTable{
		Thresholds: []int{
			0, 100, 250, 450, 700,
			1000, 1350, 1750, 2200, 2700,
			3250, 3850, 4500, 5200, 5950,
			6750, 7600, 8500, 9450, 10450,
			11500, 12600, 13750, 14950, 16200,
			17500, 18850, 20250, 21700, 23200,
		},
		Titles: []string{
			"Nybegynner", "Lærling", "Assistent", "Medarbeider", "Stødig medarbeider",
			"Erfaren medarbeider", "Spesialist", "Senior spesialist", "Veteran", "Ekspert",
			"Senior ekspert", "Mester", "Stormester", "Mentor", "Senior mentor",
			"Koordinator", "Senior koordinator", "Nøkkelperson", "Inspirator", "Pådriver",
			"Ildsjel", "Stjerne", "Superstjerne", "Champion", "Senior champion",
			"Legende", "Stor legende", "Ikon", "Grizzly", "Bjørnekongen",
		},
		Rewards: map[int]string{
			5:  "Gratis lunsj",
			10: "Velg en vakt fri",
			15: "Kinobilletter for to",
			20: "Middag for to",
			25: "En ekstra feriedag",
			30: "Helgetur for to",
		},
	}
}

// LevelFor returns the highest level whose threshold totalXP satisfies,
// capped at MaxLevel.
func (t *LevelTable) LevelFor(totalXP int) int {
	level := 1
	for i := 1; i < len(t.Thresholds); i++ {
		if totalXP >= t.Thresholds[i] {
			level = i + 1
		} else {
			break
		}
	}
	if level > MaxLevel {
		level = MaxLevel
	}
	return level
}

// XPToNext returns the XP remaining to the next level, 0 at MaxLevel.
func (t *LevelTable) XPToNext(level, totalXP int) int {
	if level >= MaxLevel || level >= len(t.Thresholds) {
		return 0
	}
	return t.Thresholds[level] - totalXP
}

// Title returns the display title for a level.
func (t *LevelTable) Title(level int) string {
	if level < 1 || level > len(t.Titles) {
		return t.Titles[0]
	}
	return t.Titles[level-1]
}

// Reward returns the configured level-up reward, or "" when the level has
// none.
func (t *LevelTable) Reward(level int) string {
	return t.Rewards[level]
}

// Progress returns the percentage of the way from the current level's
// threshold to the next, 100 at MaxLevel.
func (t *LevelTable) Progress(level, totalXP int) int {
	if level >= MaxLevel || level >= len(t.Thresholds) {
		return 100
	}
	span := t.Thresholds[level] - t.Thresholds[level-1]
	if span <= 0 {
		return 100
	}
	done := totalXP - t.Thresholds[level-1]
	pct := done * 100 / span
	if pct < 0 {
		pct = 0
	}
	if pct > 100 {
		pct = 100
	}
	return pct
}
