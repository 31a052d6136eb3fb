package services

import (
	"time"

	"chispa_app/models"
)

// DemoProfiles is the fixed directory seeded into every fresh snapshot.
// There is no real sign-up flow, so every login resolves against these
// profiles or the ones created on top of them.
func DemoProfiles() []models.UserProfile {
	return []models.UserProfile{
		{
			ID:            "1",
			EmailID:       "alejandro@email.com",
			Name:          "Alejandro",
			DOB:           time.Date(1990, time.May, 15, 0, 0, 0, 0, time.UTC),
			Gender:        "male",
			Preference:    "hetero",
			Location:      "Buenos Aires, Argentina",
			Bio:           "Amante del cine, el buen vino y las charlas profundas. Busco a alguien con quien compartir aventuras y silencios.",
			PhotoURL:      "https://placehold.co/600x800.png",
			Photos:        []string{"https://placehold.co/600x800.png", "https://placehold.co/600x801.png", "https://placehold.co/600x802.png", "https://placehold.co/600x803.png"},
			Tokens:        3,
			ReferralCount: 0,
		},
		{
			ID:            "2",
			EmailID:       "brenda@email.com",
			Name:          "Brenda",
			DOB:           time.Date(1992, time.August, 20, 0, 0, 0, 0, time.UTC),
			Gender:        "female",
			Preference:    "hetero",
			Location:      "Córdoba, Argentina",
			Bio:           "Apasionada por el arte, la música y los viajes. Me encanta descubrir nuevos lugares y sabores. ¿Te sumas?",
			PhotoURL:      "https://placehold.co/600x804.png",
			Photos:        []string{"https://placehold.co/600x804.png", "https://placehold.co/600x805.png", "https://placehold.co/600x806.png"},
			Tokens:        5,
			ReferralCount: 2,
		},
		{
			ID:            "3",
			EmailID:       "carlos@email.com",
			Name:          "Carlos",
			DOB:           time.Date(1988, time.November, 30, 0, 0, 0, 0, time.UTC),
			Gender:        "male",
			Preference:    "homo",
			Location:      "Rosario, Argentina",
			Bio:           "Entrenador personal y fanático del fitness. Busco un compañero de vida para entrenar, reír y crecer juntos.",
			PhotoURL:      "https://placehold.co/600x807.png",
			Photos:        []string{"https://placehold.co/600x807.png", "https://placehold.co/600x808.png"},
			Tokens:        2,
			ReferralCount: 4,
		},
		{
			ID:            "4",
			EmailID:       "diana@email.com",
			Name:          "Diana",
			DOB:           time.Date(1995, time.February, 10, 0, 0, 0, 0, time.UTC),
			Gender:        "female",
			Preference:    "bi",
			Location:      "Buenos Aires, Argentina",
			Bio:           "Programadora de día, gamer de noche. Me gustan los gatos, el café y el humor inteligente. Abierta a conocer gente interesante.",
			PhotoURL:      "https://placehold.co/600x809.png",
			Photos:        []string{"https://placehold.co/600x809.png"},
			Tokens:        10,
			ReferralCount: 0,
		},
	}
}
