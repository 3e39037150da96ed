package i18n

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
)

// 站点语言常量
const (
	LocaleEN = "en"
	LocaleIT = "it"
)

// DefaultLocale 默认语言
const DefaultLocale = LocaleEN

// T 返回指定语言下 key 对应的文案，缺失时回退英文，仍缺失时返回 key 本身。
func T(locale, key string) string {
	if messages, ok := catalog[normalize(locale)]; ok {
		if msg, ok := messages[key]; ok {
			return msg
		}
	}
	if msg, ok := catalog[LocaleEN][key]; ok {
		return msg
	}
	return key
}

// Sprintf 返回带参数插值的文案。
func Sprintf(locale, key string, args ...interface{}) string {
	return fmt.Sprintf(T(locale, key), args...)
}

// ResolveLocale 解析请求语言：lang 查询参数优先，其次 Accept-Language，默认英文。
func ResolveLocale(c *gin.Context) string {
	if c == nil {
		return DefaultLocale
	}
	if lang := strings.TrimSpace(c.Query("lang")); lang != "" {
		return normalize(lang)
	}
	if header := c.GetHeader("Accept-Language"); header != "" {
		for _, part := range strings.Split(header, ",") {
			tag := strings.TrimSpace(strings.SplitN(part, ";", 2)[0])
			if tag == "" {
				continue
			}
			switch normalized := normalize(tag); normalized {
			case LocaleEN, LocaleIT:
				return normalized
			}
		}
	}
	return DefaultLocale
}

func normalize(locale string) string {
	l := strings.ToLower(strings.TrimSpace(locale))
	switch {
	case strings.HasPrefix(l, "it"):
		return LocaleIT
	default:
		return LocaleEN
	}
}

var catalog = map[string]map[string]string{
	LocaleEN: {
		"error.bad_request":            "Invalid request",
		"error.internal":               "Internal server error",
		"error.unauthorized":           "Unauthorized",
		"error.auth_header_missing":    "Authorization header missing",
		"error.auth_header_invalid":    "Authorization header invalid",
		"error.token_invalid":          "Invalid or expired token",
		"error.user_not_found":         "User not found",
		"error.email_exists":           "Email already registered",
		"error.email_in_use":           "Email already in use",
		"error.invalid_email":          "Invalid email address",
		"error.weak_password":          "Password is too weak",
		"error.password_min_length":    "Password must be at least %d characters",
		"error.password_require_upper": "Password must contain an uppercase letter",
		"error.password_require_lower": "Password must contain a lowercase letter",
		"error.password_require_number": "Password must contain a number",
		"error.password_require_special": "Password must contain a special character",
		"error.incorrect_password":     "Incorrect password",
		"error.code_not_found":         "Code not found",
		"error.code_expired":           "Code is outdated",
		"error.code_mismatch":          "Incorrect code",
		"error.code_attempts_exceeded": "Too many attempts",
		"error.code_cooldown":          "Please wait [%d] seconds",
		"error.request_not_found":      "Request not found",
		"error.rate_limit":             "Too many requests, please wait [%d] seconds",
		"error.rate_limit_unavailable": "Service busy, please try later",
		"error.account_already_active": "Account already verified",
		"error.faq_not_found":          "FAQ not found",
		"error.number_not_found":       "Number not found",
		"error.invalid_date":           "Invalid date",
		"error.avatar_invalid_type":    "Unsupported image type",
		"error.avatar_too_large":       "Image is too large",
		"error.avatar_missing":         "Image file missing",

		"email.code_subject.signup":      "Your Numora verification code",
		"email.code_subject.deleteme":    "Confirm account deletion",
		"email.code_subject.forgot":      "Password reset code",
		"email.code_subject.changeemail": "Confirm your new email",
		"email.code_body":                "Your verification code is: %s\n\nThe code expires in %d minutes. Do not share it.",
	},
	LocaleIT: {
		"error.bad_request":            "Richiesta non valida",
		"error.internal":               "Errore interno del server",
		"error.unauthorized":           "Non autorizzato",
		"error.auth_header_missing":    "Intestazione di autorizzazione mancante",
		"error.auth_header_invalid":    "Intestazione di autorizzazione non valida",
		"error.token_invalid":          "Token non valido o scaduto",
		"error.user_not_found":         "Utente non trovato",
		"error.email_exists":           "Email già registrata",
		"error.email_in_use":           "Email già in uso",
		"error.invalid_email":          "Indirizzo email non valido",
		"error.weak_password":          "La password è troppo debole",
		"error.password_min_length":    "La password deve contenere almeno %d caratteri",
		"error.password_require_upper": "La password deve contenere una lettera maiuscola",
		"error.password_require_lower": "La password deve contenere una lettera minuscola",
		"error.password_require_number": "La password deve contenere un numero",
		"error.password_require_special": "La password deve contenere un carattere speciale",
		"error.incorrect_password":     "Password errata",
		"error.code_not_found":         "Codice non trovato",
		"error.code_expired":           "Codice scaduto",
		"error.code_mismatch":          "Codice errato",
		"error.code_attempts_exceeded": "Troppi tentativi",
		"error.code_cooldown":          "Attendi [%d] secondi",
		"error.request_not_found":      "Richiesta non trovata",
		"error.rate_limit":             "Troppe richieste, attendi [%d] secondi",
		"error.rate_limit_unavailable": "Servizio occupato, riprova più tardi",
		"error.account_already_active": "Account già verificato",
		"error.faq_not_found":          "FAQ non trovata",
		"error.number_not_found":       "Numero non trovato",
		"error.invalid_date":           "Data non valida",
		"error.avatar_invalid_type":    "Tipo di immagine non supportato",
		"error.avatar_too_large":       "Immagine troppo grande",
		"error.avatar_missing":         "File immagine mancante",

		"email.code_subject.signup":      "Il tuo codice di verifica Numora",
		"email.code_subject.deleteme":    "Conferma l'eliminazione dell'account",
		"email.code_subject.forgot":      "Codice di reimpostazione password",
		"email.code_subject.changeemail": "Conferma la tua nuova email",
		"email.code_body":                "Il tuo codice di verifica è: %s\n\nIl codice scade tra %d minuti. Non condividerlo.",
	},
}
