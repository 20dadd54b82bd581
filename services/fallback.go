package services

import "strings"

// fallbackBucket associates a set of trigger keywords with a canned answer.
// Buckets are checked in order and the first match wins, so a question like
// "qui contacter" hits the contact bucket before the general who/what one.
type fallbackBucket struct {
	keywords []string
	response string
}

var fallbackBuckets = []fallbackBucket{
	{
		keywords: []string{"dgn", "dynamiques", "guylin", "nyembo"},
		response: "DGN (Dynamiques Guylin Nyembo) est une organisation dédiée au développement et à l'innovation. Nous œuvrons dans différents domaines pour accompagner et soutenir nos membres et partenaires.",
	},
	{
		keywords: []string{"service", "offre", "prestation"},
		response: "DGN propose diverses prestations et services d'accompagnement. Vous pouvez consulter nos différentes sections pour découvrir notre offre complète et nous contacter pour plus de détails.",
	},
	{
		keywords: []string{"aide", "assistance", "support", "problème"},
		response: "Nous sommes là pour vous accompagner. N'hésitez pas à nous préciser votre besoin ou à consulter nos sections dédiées. Notre équipe est disponible pour vous aider.",
	},
	{
		keywords: []string{"contact", "joindre", "contacter", "téléphone", "email", "adresse"},
		response: "Pour nous contacter, vous pouvez utiliser les informations disponibles dans notre section contact. Nous serons ravis de répondre à vos questions et demandes.",
	},
	{
		keywords: []string{"membre", "adhésion", "rejoindre", "inscription", "devenir"},
		response: "Pour devenir membre de DGN ou en savoir plus sur l'adhésion, consultez notre section membres. Vous y trouverez toutes les informations sur les types de membres et les modalités d'inscription.",
	},
	{
		keywords: []string{"actualité", "news", "nouvelle", "information", "communiqué"},
		response: "Retrouvez toutes nos actualités et communiqués dans la section news de notre site. Nous publions régulièrement des informations sur nos activités et projets.",
	},
	{
		keywords: []string{"application", "outil", "logiciel", "plateforme"},
		response: "Découvrez nos applications et outils dans la section dédiée. Nous développons diverses solutions pour répondre aux besoins de nos utilisateurs.",
	},
	{
		keywords: []string{"qui", "quoi", "présentation", "description"},
		response: "DGN (Dynamiques Guylin Nyembo) est une organisation engagée dans le développement et l'innovation. Explorez notre site pour découvrir nos missions, valeurs et réalisations.",
	},
	{
		keywords: []string{"appelles", "appelle", "nom", "name", "qui es-tu", "qui est-tu"},
		response: "Je m'appelle Guylin, je suis l'assistant virtuel de DGN (Dynamiques Guylin Nyembo).",
	},
	{
		keywords: []string{"bonjour", "salut", "bonsoir", "hello", "hey"},
		response: "Bonjour ! Je m'appelle Guylin, je suis l'assistant virtuel de DGN. Je suis là pour vous aider avec vos questions sur notre organisation et nos services. Comment puis-je vous aider aujourd'hui ?",
	},
	{
		keywords: []string{"merci", "thanks", "thank you"},
		response: "De rien ! N'hésitez pas si vous avez d'autres questions sur DGN ou nos services. Je reste à votre disposition.",
	},
}

const genericFallbackResponse = "Merci pour votre question ! Je suis l'assistant virtuel de DGN (Dynamiques Guylin Nyembo). Je peux vous renseigner sur notre organisation, nos services, l'adhésion, nos actualités et bien plus. N'hésitez pas à me poser une question plus spécifique."

// GenerateIntelligentFallback picks a canned French answer for a visitor
// message when the AI provider cannot be used. It always returns a non-empty
// string.
func GenerateIntelligentFallback(userMessage string) string {
	message := strings.ToLower(userMessage)

	for _, bucket := range fallbackBuckets {
		for _, keyword := range bucket.keywords {
			if strings.Contains(message, keyword) {
				return bucket.response
			}
		}
	}

	return genericFallbackResponse
}
