package domain

import "strings"

// FieldErrors porte les erreurs de validation champ par champ. Le handler HTTP
// les renvoie en 200 avec le formulaire, jamais en erreur serveur : rien n'est
// persisté tant que la saisie est invalide.
type FieldErrors map[string]string

func (f FieldErrors) Error() string {
	parts := make([]string, 0, len(f))
	for field, msg := range f {
		parts = append(parts, field+": "+msg)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// ValidatePostInput vérifie la saisie d'un post (création comme édition).
func ValidatePostInput(text string) FieldErrors {
	errs := FieldErrors{}
	if strings.TrimSpace(text) == "" {
		errs["text"] = "text is required"
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

func ValidateCommentInput(text string) FieldErrors {
	errs := FieldErrors{}
	if strings.TrimSpace(text) == "" {
		errs["text"] = "text is required"
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}
