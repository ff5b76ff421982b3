package moderation

// Keyword lists the classifier scores against. Matching is substring based
// and case-insensitive, so multi-word phrases match as written.

var agricultureKeywords = []string{
	// Plants and crops
	"plant", "crop", "seed", "sapling", "seedling", "germination", "harvest", "yield",
	"fertilizer", "pesticide", "irrigation", "watering", "soil", "compost", "mulch",
	"garden", "farm", "greenhouse", "hydroponics", "aquaponics", "vertical farming",

	// Plant care
	"pruning", "repotting", "transplanting", "propagation", "cutting",
	"grafting", "pollination", "photosynthesis", "nutrients", "sunlight", "shade",
	"temperature", "humidity", "ventilation", "disease", "pest", "weed",

	// Plant types
	"tree", "shrub", "herb", "vegetable", "fruit", "flower", "succulent", "cactus",
	"indoor plant", "outdoor plant", "tropical", "temperate", "annual", "perennial",
	"biennial", "evergreen", "deciduous", "monstera",

	// Agriculture practices
	"organic farming", "sustainable agriculture", "permaculture", "biodynamic farming",
	"crop rotation", "companion planting", "cover cropping", "no-till farming",
	"precision agriculture", "smart farming", "urban farming", "community garden",

	// Plant health
	"plant health", "growth", "blooming", "fruiting", "wilting",
	"yellowing", "browning", "root rot", "leaf spot", "powdery mildew", "aphids",
	"spider mites", "fungus", "bacteria", "virus",

	// Gardening tools
	"trowel", "pruner", "watering can", "hose", "rake", "hoe", "shovel", "wheelbarrow",
	"garden bed", "planter", "pot", "trellis", "stake", "netting", "row cover",
}

var environmentKeywords = []string{
	// Climate and weather
	"climate", "weather", "rainfall", "drought", "flood", "storm",
	"global warming", "climate change", "carbon footprint", "greenhouse gases",
	"emissions", "renewable energy", "solar", "wind", "hydroelectric",

	// Ecosystems and biodiversity
	"ecosystem", "biodiversity", "wildlife", "habitat", "conservation", "preservation",
	"endangered species", "native species", "invasive species",
	"bees", "butterflies", "birds", "insects", "microorganisms",

	// Natural resources
	"water", "air", "forest", "ocean", "river", "lake", "mountain",
	"desert", "grassland", "wetland", "marsh", "swamp", "coral reef",

	// Environmental issues
	"pollution", "deforestation", "desertification", "soil erosion", "water pollution",
	"air pollution", "plastic waste", "recycling", "waste management", "landfill",
	"ocean acidification", "ocean warming", "melting ice", "sea level rise",

	// Sustainability
	"sustainable", "eco-friendly", "green", "organic", "natural", "renewable",
	"biodegradable", "compostable", "zero waste", "circular economy",
	"reduce", "reuse", "recycle", "upcycle", "repurpose",

	// Environmental actions
	"plant trees", "clean up", "restore", "protect", "conserve", "educate",
	"awareness", "activism", "petition", "volunteer", "donate", "support",
}

var unrelatedKeywords = []string{
	// Politics and controversy
	"politics", "political", "election", "vote", "democrat", "republican",
	"liberal", "conservative", "protest", "rally",

	// Entertainment and celebrity
	"celebrity", "actor", "actress", "singer", "movie", "film", "tv show",
	"television", "music", "concert", "award", "red carpet", "gossip",

	// Sports
	"football", "basketball", "baseball", "soccer", "tennis", "golf",
	"olympics", "championship", "tournament", "player", "coach",

	// Technology
	"smartphone", "computer", "laptop", "gaming", "video game",
	"software", "programming", "coding", "artificial intelligence",

	// Business and finance
	"stock market", "investment", "trading", "cryptocurrency", "bitcoin",
	"corporation", "profit", "revenue", "marketing",

	// Personal life
	"dating", "relationship", "marriage", "divorce", "family drama",
	"personal problems", "complaints", "rants",
}
