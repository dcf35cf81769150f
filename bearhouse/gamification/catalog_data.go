package gamification

// Production catalog content. Kept in code the same way the quest
// definitions are seeded; NewCatalog validates it at startup so a typo here
// fails fast instead of surfacing as a missing counter.

// cleaningQuestIDs is the named list of quests that bump the cleaning
// counter, independent of their domain tag.
var cleaningQuestIDs = map[string]bool{
	"clean-tables": true, "clean-counter": true, "clean-floor-sweep": true,
	"clean-floor-mop": true, "clean-toilet": true, "empty-trash": true,
	"table-legs": true, "chair-clean": true, "laundry": true,
	"toilet-deep": true, "windows-inside": true, "mirrors": true,
	"bins-clean": true, "sink-descale": true, "drain-clean": true,
	"fridge-organize": true, "fridge-wipe": true, "freezer-organize": true,
	"storage-organize": true, "fridge-deep-clean": true, "freezer-defrost": true,
	"cabinet-organize": true, "deep-clean-floor": true, "walls-clean": true,
	"ceiling-clean": true, "light-fixtures": true, "behind-equipment": true,
	"under-equipment": true, "windows-outside": true, "grease-trap": true,
	"floor-strip-wax": true,
}

// NewDefaultCatalog returns the production quest and achievement content.
func NewDefaultCatalog() (*Catalog, error) {
	quests := map[QuestCategory][]Quest{
		QuestDaily: {
			{ID: "check-in", Name: "Sjekk inn på dashbordet", Category: QuestDaily, XP: 10, Tag: "basis"},
			{ID: "clean-tables", Name: "Vask alle bordene", Category: QuestDaily, XP: 10, Tag: "renhold"},
			{ID: "clean-counter", Name: "Vask disken", Category: QuestDaily, XP: 10, Tag: "renhold"},
			{ID: "clean-floor-sweep", Name: "Kost gulvet", Category: QuestDaily, XP: 10, Tag: "renhold"},
			{ID: "clean-floor-mop", Name: "Vask gulvet", Category: QuestDaily, XP: 15, Tag: "renhold"},
			{ID: "clean-toilet", Name: "Sjekk og vask toalettet", Category: QuestDaily, XP: 15, Tag: "renhold"},
			{ID: "empty-trash", Name: "Tøm alle søppelbøtter", Category: QuestDaily, XP: 10, Tag: "renhold"},
			{ID: "restock-shelves", Name: "Fyll på varer i hyllene", Category: QuestDaily, XP: 10, Tag: "drift"},
			{ID: "temp-check", Name: "Loggfør kjøletemperaturer", Category: QuestDaily, XP: 15, Tag: "haccp"},
			{ID: "closing-routine", Name: "Fullfør stengerutinen", Category: QuestDaily, XP: 20, Tag: "drift"},
			{ID: "upsell-item", Name: "Mersalg til en kunde", Category: QuestDaily, XP: 15, Tag: "salg"},
			{ID: "greet-regulars", Name: "Hils på stamgjestene med navn", Category: QuestDaily, XP: 10, Tag: "service"},
		},
		QuestWeekly: {
			{ID: "toilet-deep", Name: "Grundig vask av toalettet", Category: QuestWeekly, XP: 30, Tag: "renhold"},
			{ID: "windows-inside", Name: "Puss vinduene innvendig", Category: QuestWeekly, XP: 25, Tag: "renhold"},
			{ID: "mirrors", Name: "Puss alle speil", Category: QuestWeekly, XP: 15, Tag: "renhold"},
			{ID: "bins-clean", Name: "Vask søppelbøttene", Category: QuestWeekly, XP: 20, Tag: "renhold"},
			{ID: "sink-descale", Name: "Avkalk vasken", Category: QuestWeekly, XP: 20, Tag: "renhold"},
			{ID: "drain-clean", Name: "Rens sluket", Category: QuestWeekly, XP: 25, Tag: "renhold"},
			{ID: "fridge-organize", Name: "Rydd og organiser kjøleskapet", Category: QuestWeekly, XP: 25, Tag: "drift"},
			{ID: "fridge-wipe", Name: "Tørk av kjøleskapet innvendig", Category: QuestWeekly, XP: 20, Tag: "renhold"},
			{ID: "table-legs", Name: "Vask bordbein og understell", Category: QuestWeekly, XP: 20, Tag: "renhold"},
			{ID: "chair-clean", Name: "Vask alle stolene", Category: QuestWeekly, XP: 20, Tag: "renhold"},
			{ID: "laundry", Name: "Vask kluter og forklær", Category: QuestWeekly, XP: 15, Tag: "renhold"},
			{ID: "stock-count", Name: "Tell varelageret", Category: QuestWeekly, XP: 30, Tag: "admin"},
			{ID: "salt-walkway", Name: "Strø og måk inngangspartiet", Category: QuestWeekly, XP: 25, Tag: "uteområde", Season: "winter"},
			{ID: "patio-setup", Name: "Gjør klar uteserveringen", Category: QuestWeekly, XP: 25, Tag: "uteområde", Season: "summer"},
		},
		QuestMonthly: {
			{ID: "freezer-organize", Name: "Rydd fryseren", Category: QuestMonthly, XP: 40, Tag: "drift"},
			{ID: "storage-organize", Name: "Rydd lageret", Category: QuestMonthly, XP: 40, Tag: "drift"},
			{ID: "fridge-deep-clean", Name: "Grundig vask av kjøleskap", Category: QuestMonthly, XP: 50, Tag: "renhold"},
			{ID: "cabinet-organize", Name: "Rydd skuffer og skap", Category: QuestMonthly, XP: 30, Tag: "drift"},
			{ID: "deep-clean-floor", Name: "Grundig gulvvask med maskin", Category: QuestMonthly, XP: 50, Tag: "renhold"},
			{ID: "walls-clean", Name: "Vask veggene", Category: QuestMonthly, XP: 40, Tag: "renhold"},
			{ID: "haccp-review", Name: "Gjennomgå HACCP-rutinene", Category: QuestMonthly, XP: 50, Tag: "haccp"},
			{ID: "menu-training", Name: "Lær deg hele menyen", Category: QuestMonthly, XP: 40, Tag: "opplæring"},
			{ID: "social-media-post", Name: "Lag innhold til sosiale medier", Category: QuestMonthly, XP: 30, Tag: "markedsføring"},
			{ID: "windows-outside", Name: "Puss vinduene utvendig", Category: QuestMonthly, XP: 35, Tag: "renhold", Season: "spring-summer"},
			{ID: "planters-tend", Name: "Stell blomsterkassene", Category: QuestMonthly, XP: 25, Tag: "uteområde", Season: "spring-summer"},
		},
		QuestQuarterly: {
			{ID: "freezer-defrost", Name: "Tin og vask fryseren", Category: QuestQuarterly, XP: 75, Tag: "drift"},
			{ID: "ceiling-clean", Name: "Vask taket og ventiler", Category: QuestQuarterly, XP: 60, Tag: "renhold"},
			{ID: "light-fixtures", Name: "Rengjør lysarmaturer", Category: QuestQuarterly, XP: 40, Tag: "renhold"},
			{ID: "behind-equipment", Name: "Vask bak alle maskiner", Category: QuestQuarterly, XP: 60, Tag: "renhold"},
			{ID: "under-equipment", Name: "Vask under alle maskiner", Category: QuestQuarterly, XP: 60, Tag: "renhold"},
			{ID: "grease-trap", Name: "Tøm og rens fettutskiller", Category: QuestQuarterly, XP: 75, Tag: "drift"},
			{ID: "floor-strip-wax", Name: "Boning av gulv", Category: QuestQuarterly, XP: 80, Tag: "renhold"},
			{ID: "equipment-service", Name: "Gjennomgå serviceavtaler", Category: QuestQuarterly, XP: 50, Tag: "utstyr"},
			{ID: "safety-drill", Name: "Gjennomfør brannøvelse", Category: QuestQuarterly, XP: 60, Tag: "sikkerhet"},
		},
		QuestSeasonal: {
			{ID: "christmas-decorate", Name: "Pynt til jul", Category: QuestSeasonal, XP: 50, Tag: "sesong", Season: "november-december"},
			{ID: "christmas-menu", Name: "Lær julemenyen", Category: QuestSeasonal, XP: 30, Tag: "sesong", Season: "november-december"},
			{ID: "easter-prep", Name: "Forbered påskerushet", Category: QuestSeasonal, XP: 50, Tag: "sesong", Season: "march-april"},
			{ID: "winter-lights", Name: "Heng opp vinterbelysning", Category: QuestSeasonal, XP: 40, Tag: "sesong", Season: "november"},
			{ID: "summer-terrace", Name: "Sommerklargjør terrassen", Category: QuestSeasonal, XP: 50, Tag: "sesong", Season: "may-june"},
			{ID: "halloween-theme", Name: "Halloween-tema i kafeen", Category: QuestSeasonal, XP: 30, Tag: "sesong", Season: "october"},
		},
		QuestSpecial: {
			{ID: "train-newcomer", Name: "Lær opp en ny kollega", Category: QuestSpecial, XP: 75, Tag: "opplæring"},
			{ID: "solve-complaint", Name: "Løs en kundeklage på stedet", Category: QuestSpecial, XP: 50, Tag: "service"},
			{ID: "improvement-idea", Name: "Foreslå en forbedring som innføres", Category: QuestSpecial, XP: 60, Tag: "innovasjon"},
			{ID: "zero-waste-day", Name: "Null matsvinn en hel dag", Category: QuestSpecial, XP: 40, Tag: "bærekraft"},
			{ID: "budget-hit", Name: "Nå dagsbudsjettet", Category: QuestSpecial, XP: 25, Tag: "salg", AutoTrack: true},
			{ID: "sales-record", Name: "Sett ny salgsrekord", Category: QuestSpecial, XP: 100, Tag: "salg", AutoTrack: true},
		},
	}

	achievements := []Achievement{
		{ID: "first-login", Name: "Første innlogging", Description: "Logget inn på dashbordet for første gang", Icon: "👋", Trigger: TriggerManual},
		{ID: "quest-master-10", Name: "Oppdragsjeger", Description: "Fullfør 10 oppdrag", Icon: "🗡️", Trigger: TriggerQuestsCompleted, Threshold: 10},
		{ID: "quest-master-50", Name: "Oppdragsmester", Description: "Fullfør 50 oppdrag", Icon: "⚔️", Trigger: TriggerQuestsCompleted, Threshold: 50},
		{ID: "quest-master-100", Name: "Oppdragslegende", Description: "Fullfør 100 oppdrag", Icon: "🏅", Trigger: TriggerQuestsCompleted, Threshold: 100},
		{ID: "streak-warrior", Name: "Streak-kriger", Description: "7 dager på rad", Icon: "🔥", Trigger: TriggerLoginStreak, Threshold: 7},
		{ID: "streak-champion", Name: "Streak-champion", Description: "30 dager på rad", Icon: "💎", Trigger: TriggerLoginStreak, Threshold: 30},
		{ID: "level-5", Name: "Nivå 5", Description: "Nå nivå 5", Icon: "⭐", Trigger: TriggerLevel, Threshold: 5},
		{ID: "level-10", Name: "Nivå 10", Description: "Nå nivå 10", Icon: "🌟", Trigger: TriggerLevel, Threshold: 10},
		{ID: "level-15", Name: "Nivå 15", Description: "Nå nivå 15", Icon: "✨", Trigger: TriggerLevel, Threshold: 15},
		{ID: "level-20", Name: "Nivå 20", Description: "Nå nivå 20", Icon: "💫", Trigger: TriggerLevel, Threshold: 20},
		{ID: "level-25", Name: "Nivå 25", Description: "Nå nivå 25", Icon: "🌠", Trigger: TriggerLevel, Threshold: 25},
		{ID: "level-30", Name: "Bjørnekongen", Description: "Nå nivå 30", Icon: "👑", Trigger: TriggerLevel, Threshold: 30},
		{ID: "review-hunter", Name: "Anmeldelsesjeger", Description: "5 femstjerners anmeldelser", Icon: "⭐", Trigger: TriggerFiveStarReviews, Threshold: 5},
		{ID: "review-legend", Name: "Anmeldelseslegende", Description: "20 femstjerners anmeldelser", Icon: "🏆", Trigger: TriggerFiveStarReviews, Threshold: 20},
		{ID: "sales-star", Name: "Salgsstjerne", Description: "10 dager med budsjett nådd", Icon: "🎯", Trigger: TriggerBudgetDays, Threshold: 10},
		{ID: "record-breaker", Name: "Rekordknuser", Description: "3 rekorddager", Icon: "🏆", Trigger: TriggerRecordDays, Threshold: 3},
		{ID: "upsell-master", Name: "Mersalgsmester", Description: "5 dager med høyt snittsalg", Icon: "💰", Trigger: TriggerAvgTicketDays, Threshold: 5},
		{ID: "early-bird", Name: "Morgenfugl", Description: "10 innlogginger før kl 07", Icon: "🌅", Trigger: TriggerEarlyLogins, Threshold: 10},
		{ID: "clean-freak", Name: "Renholdsproff", Description: "25 renholdsoppdrag", Icon: "🧽", Trigger: TriggerCleaningQuests, Threshold: 25},
	}

	return NewCatalog(quests, achievements)
}
