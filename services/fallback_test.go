package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateIntelligentFallbackBuckets(t *testing.T) {
	tests := []struct {
		name     string
		message  string
		expected string
	}{
		{
			name:     "organization identity",
			message:  "Qu'est-ce que DGN ?",
			expected: "DGN (Dynamiques Guylin Nyembo) est une organisation dédiée au développement et à l'innovation. Nous œuvrons dans différents domaines pour accompagner et soutenir nos membres et partenaires.",
		},
		{
			name:     "services",
			message:  "quels sont vos services ?",
			expected: "DGN propose diverses prestations et services d'accompagnement. Vous pouvez consulter nos différentes sections pour découvrir notre offre complète et nous contacter pour plus de détails.",
		},
		{
			name:     "help",
			message:  "j'ai besoin d'assistance",
			expected: "Nous sommes là pour vous accompagner. N'hésitez pas à nous préciser votre besoin ou à consulter nos sections dédiées. Notre équipe est disponible pour vous aider.",
		},
		{
			name:     "contact",
			message:  "comment vous contacter ?",
			expected: "Pour nous contacter, vous pouvez utiliser les informations disponibles dans notre section contact. Nous serons ravis de répondre à vos questions et demandes.",
		},
		{
			name:     "membership",
			message:  "je veux devenir membre",
			expected: "Pour devenir membre de DGN ou en savoir plus sur l'adhésion, consultez notre section membres. Vous y trouverez toutes les informations sur les types de membres et les modalités d'inscription.",
		},
		{
			name:     "news",
			message:  "avez-vous des actualités ?",
			expected: "Retrouvez toutes nos actualités et communiqués dans la section news de notre site. Nous publions régulièrement des informations sur nos activités et projets.",
		},
		{
			name:     "applications",
			message:  "votre plateforme en ligne",
			expected: "Découvrez nos applications et outils dans la section dédiée. Nous développons diverses solutions pour répondre aux besoins de nos utilisateurs.",
		},
		{
			name:     "assistant name",
			message:  "comment tu t'appelles ?",
			expected: "Je m'appelle Guylin, je suis l'assistant virtuel de DGN (Dynamiques Guylin Nyembo).",
		},
		{
			name:     "greeting",
			message:  "Bonjour",
			expected: "Bonjour ! Je m'appelle Guylin, je suis l'assistant virtuel de DGN. Je suis là pour vous aider avec vos questions sur notre organisation et nos services. Comment puis-je vous aider aujourd'hui ?",
		},
		{
			name:     "thanks",
			message:  "merci beaucoup",
			expected: "De rien ! N'hésitez pas si vous avez d'autres questions sur DGN ou nos services. Je reste à votre disposition.",
		},
		{
			name:     "no bucket matches",
			message:  "azerty 12345",
			expected: genericFallbackResponse,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, GenerateIntelligentFallback(tt.message))
		})
	}
}

// Buckets overlap, so the fixed order is the tie break.
func TestGenerateIntelligentFallbackPriority(t *testing.T) {
	// "contacter" (contact bucket) wins over "qui" (general questions).
	response := GenerateIntelligentFallback("qui puis-je contacter ?")
	assert.Contains(t, response, "section contact")

	// "nouvelle" (news bucket) wins over "salut" (greetings).
	response = GenerateIntelligentFallback("salut, des nouvelles ?")
	assert.Contains(t, response, "actualités et communiqués")

	// The identity bucket is checked before everything else.
	response = GenerateIntelligentFallback("bonjour dgn")
	assert.Contains(t, response, "organisation dédiée au développement")
}

func TestGenerateIntelligentFallbackIsCaseInsensitive(t *testing.T) {
	assert.Equal(t,
		GenerateIntelligentFallback("BONJOUR"),
		GenerateIntelligentFallback("bonjour"))
}

func TestFallbackResponsesNeverTooShort(t *testing.T) {
	for _, bucket := range fallbackBuckets {
		assert.GreaterOrEqual(t, len(bucket.response), 5)
	}

	assert.GreaterOrEqual(t, len(genericFallbackResponse), 5)
}
