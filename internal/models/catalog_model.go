package models

var AvailableTopics = []string{
	"Technology",
	"Real Estate",
	"Marketing",
	"Finance",
	"Health & Wellness",
	"Startups",
	"AI & Machine Learning",
	"E-commerce",
	"Software Development",
}

var AvailableFrequencies = []string{"3x a week", "5x a week", "1x a day", "2x a day"}

var AvailableTones = []string{"Playful", "Professional", "Casual", "Enthusiastic", "Serious"}

// MaxTopicPreferences bounds the topics a profile may select.
const MaxTopicPreferences = 3
