package sim

// DefaultHandTraps is the bundled hand-trap classifier: cards playable from
// hand during the opponent's turn. The classifier is data, not behavior;
// embedders can replace it wholesale through Options.HandTraps.
var DefaultHandTraps = []string{
	"Ash Blossom & Joyous Spring",
	"Maxx \"C\"",
	"Infinite Impermanence",
	"Effect Veiler",
	"Ghost Ogre & Snow Rabbit",
	"Ghost Belle & Haunted Mansion",
	"Ghost Mourner & Moonlit Chill",
	"Ghost Sister & Spooky Dogwood",
	"Droll & Lock Bird",
	"Nibiru, the Primal Being",
	"D.D. Crow",
	"Skull Meister",
	"PSY-Framegear Gamma",
	"Dimension Shifter",
	"Artifact Lancea",
	"Fantastical Dragon Phantazmay",
	"Gnomaterial",
	"Red Reboot",
	"Contact \"C\"",
	"Retaliating \"C\"",
	"Mulcharmy Fuwalos",
	"Mulcharmy Purulia",
	"Bystial Magnamhut",
	"Bystial Druiswurm",
	"Bystial Saronir",
	"Bystial Baldrake",
}

// handTrapSet normalizes a classifier list into a lookup set.
func handTrapSet(names []string) map[string]bool {
	set := make(map[string]bool, len(names))
	for _, name := range names {
		set[normName(name)] = true
	}
	return set
}
