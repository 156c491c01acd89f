package handlers

import (
	"fmt"
	"net/http"

	"webgen/internal/domain"
	"webgen/internal/middleware"
)

const (
	msgBanner         = "banner"
	msgSiteGenerated  = "site_generated"
	msgEditApplied    = "edit_applied"
	msgPaymentOK      = "payment_ok"
	msgSiteNotFound   = "site_not_found"
	msgInvalidPayload = "invalid_payload"
	msgInternal       = "internal"
	msgRateLimited    = "rate_limited"
)

var messages = map[string]map[string]string{
	msgBanner: {
		middleware.LocaleFR: "IA WebGen API v1.0 - Édition Avancée",
		middleware.LocaleEN: "IA WebGen API v1.0 - Advanced Editing",
	},
	msgSiteGenerated: {
		middleware.LocaleFR: "Site généré avec succès",
		middleware.LocaleEN: "Website generated successfully",
	},
	msgEditApplied: {
		middleware.LocaleFR: "Modification appliquée avec succès",
		middleware.LocaleEN: "Modification applied successfully",
	},
	msgPaymentOK: {
		middleware.LocaleFR: "Paiement confirmé. Votre site sera envoyé par email dans quelques minutes.",
		middleware.LocaleEN: "Payment confirmed. Your website will be emailed to you in a few minutes.",
	},
	msgSiteNotFound: {
		middleware.LocaleFR: "Site non trouvé",
		middleware.LocaleEN: "Website not found",
	},
	msgInvalidPayload: {
		middleware.LocaleFR: "Requête invalide",
		middleware.LocaleEN: "Invalid payload",
	},
	msgInternal: {
		middleware.LocaleFR: "Erreur serveur",
		middleware.LocaleEN: "Internal server error",
	},
	msgRateLimited: {
		middleware.LocaleFR: "Trop de requêtes, réessayez dans un instant",
		middleware.LocaleEN: "Too many requests, please retry shortly",
	},
}

// validationMessages is keyed by "field.code". Fields without an entry use
// the generic text for their code, which takes the field name.
var validationMessages = map[string]map[string]string{
	"businessName." + domain.CodeTooShort: {
		middleware.LocaleFR: "Le nom de l'entreprise doit contenir au moins 2 caractères",
		middleware.LocaleEN: "The business name must be at least 2 characters long",
	},
	"description." + domain.CodeTooShort: {
		middleware.LocaleFR: "La description doit contenir au moins 10 caractères",
		middleware.LocaleEN: "The description must be at least 10 characters long",
	},
	"userEmail." + domain.CodeMalformed: {
		middleware.LocaleFR: "L'adresse email n'est pas valide",
		middleware.LocaleEN: "The email address is not valid",
	},
	"selectedPages." + domain.CodeRequired: {
		middleware.LocaleFR: "Sélectionnez au moins une page",
		middleware.LocaleEN: "Select at least one page",
	},
	"primaryColor." + domain.CodeMalformed: {
		middleware.LocaleFR: "La couleur principale doit être au format hexadécimal, par exemple #3b82f6",
		middleware.LocaleEN: "The primary color must be a hex color such as #3b82f6",
	},
	"secondaryColor." + domain.CodeMalformed: {
		middleware.LocaleFR: "La couleur secondaire doit être au format hexadécimal, par exemple #1e40af",
		middleware.LocaleEN: "The secondary color must be a hex color such as #1e40af",
	},
	"query." + domain.CodeRequired: {
		middleware.LocaleFR: "Le paramètre query est requis",
		middleware.LocaleEN: "query is required",
	},
	"count." + domain.CodeMalformed: {
		middleware.LocaleFR: "Le paramètre count doit être un entier positif ou nul",
		middleware.LocaleEN: "count must be a non-negative integer",
	},
	"command." + domain.CodeUnsupported: {
		middleware.LocaleFR: "Commande inconnue, utilisez setText, setHTML, setImage ou setStyle",
		middleware.LocaleEN: "Unknown command, use setText, setHTML, setImage or setStyle",
	},
	"offerType." + domain.CodeUnsupported: {
		middleware.LocaleFR: "L'offre doit être site ou conciergerie",
		middleware.LocaleEN: "The offer must be site or conciergerie",
	},
	"totalPrice." + domain.CodeNegative: {
		middleware.LocaleFR: "Le montant ne peut pas être négatif",
		middleware.LocaleEN: "The total price cannot be negative",
	},
	domain.CodeRequired: {
		middleware.LocaleFR: "Le champ %s est requis",
		middleware.LocaleEN: "%s is required",
	},
	domain.CodeTooShort: {
		middleware.LocaleFR: "Le champ %s est trop court",
		middleware.LocaleEN: "%s is too short",
	},
	domain.CodeMalformed: {
		middleware.LocaleFR: "Le champ %s est mal formé",
		middleware.LocaleEN: "%s is malformed",
	},
	domain.CodeUnsupported: {
		middleware.LocaleFR: "La valeur de %s n'est pas prise en charge",
		middleware.LocaleEN: "%s has an unsupported value",
	},
	domain.CodeNegative: {
		middleware.LocaleFR: "Le champ %s ne peut pas être négatif",
		middleware.LocaleEN: "%s cannot be negative",
	},
}

func (a *App) msg(r *http.Request, key string) string {
	return localized(messages[key], middleware.LocaleFromContext(r.Context()))
}

// validationMsg localises verr, falling back to its English detail when the
// code is unknown.
func (a *App) validationMsg(r *http.Request, verr *domain.ValidationError) string {
	locale := middleware.LocaleFromContext(r.Context())
	if texts, ok := validationMessages[verr.Field+"."+verr.Code]; ok {
		return localized(texts, locale)
	}
	if texts, ok := validationMessages[verr.Code]; ok {
		return fmt.Sprintf(localized(texts, locale), verr.Field)
	}
	return verr.Error()
}

func localized(texts map[string]string, locale string) string {
	if text, ok := texts[locale]; ok {
		return text
	}
	return texts[middleware.LocaleFR]
}
