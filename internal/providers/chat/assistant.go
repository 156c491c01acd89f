// Package chat answers the editor's assistant panel with canned replies.
package chat

import (
	"math/rand"
	"strings"
)

// Reply types understood by the editor.
const (
	TypeHelp        = "help"
	TypeImageSearch = "image_search"
	TypeEditHelp    = "edit_help"
	TypeGeneral     = "general"
)

const imageCommand = "/image"

// Reply is one assistant message.
type Reply struct {
	Message string `json:"message"`
	Type    string `json:"type"`
	Query   string `json:"query,omitempty"`
}

const helpMessage = `Je peux t'aider avec :
• <b>/image [description]</b> - Chercher des images
• Questions sur l'édition du site
• Suggestions d'amélioration
• Conseils de design

Que veux-tu faire ?`

const editHelpMessage = `Pour modifier ton site :
1. Active le <b>Mode Édition</b> dans le panneau de droite
2. Clique sur n'importe quel élément pour le modifier
3. Utilise les boutons d'édition qui apparaissent
4. Tu peux changer les textes, couleurs, styles

Veux-tu que j'active le mode édition pour toi ?`

var generalReplies = []string{
	"C'est une excellente question ! Peux-tu me donner plus de détails ?",
	"Je vois que tu travailles sur ton site. Comment puis-je t'aider à l'améliorer ?",
	"Bonne idée ! Pour cela, je recommande d'utiliser le mode édition.",
	"Intéressant ! N'hésite pas à expérimenter avec les couleurs et les styles.",
	"Super ! Si tu veux ajouter du contenu visuel, utilise la commande <b>/image [description]</b>.",
}

// Assistant picks a reply from the message content.
type Assistant struct {
	pick func(n int) int
}

// NewAssistant returns an assistant choosing generic replies at random.
func NewAssistant() *Assistant {
	return &Assistant{pick: rand.Intn}
}

// NewAssistantWithPicker makes generic reply selection deterministic.
func NewAssistantWithPicker(pick func(n int) int) *Assistant {
	return &Assistant{pick: pick}
}

// Respond matches, in order: help keywords, the /image command, edit
// keywords, then falls back to a generic reply.
func (a *Assistant) Respond(message string) Reply {
	msg := strings.ToLower(strings.TrimSpace(message))
	switch {
	case strings.Contains(msg, "aide") || strings.Contains(msg, "help"):
		return Reply{Message: helpMessage, Type: TypeHelp}
	case strings.HasPrefix(msg, imageCommand):
		query := strings.TrimSpace(strings.TrimPrefix(msg, imageCommand))
		return Reply{Message: "🔍 Recherche d'images pour: \"" + query + "\"...", Type: TypeImageSearch, Query: query}
	case strings.Contains(msg, "édition") || strings.Contains(msg, "modifier"):
		return Reply{Message: editHelpMessage, Type: TypeEditHelp}
	default:
		i := a.pick(len(generalReplies))
		if i < 0 || i >= len(generalReplies) {
			i = 0
		}
		return Reply{Message: generalReplies[i], Type: TypeGeneral}
	}
}
