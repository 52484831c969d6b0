// Package i18n translates API error codes into the caller's language.
package i18n

import (
	"golang.org/x/text/language"
)

var supported = []language.Tag{
	language.English,
	language.Russian,
}

var matcher = language.NewMatcher(supported)

var catalog = map[language.Tag]map[string]string{
	language.English: {
		"UNAUTHORIZED":          "Authentication required",
		"AUTH_HEADER_MISSING":   "Authorization header is missing",
		"INVALID_AUTH_FORMAT":   "Authorization header must be 'Bearer <token>'",
		"INVALID_TOKEN":         "Token is invalid or expired",
		"FORBIDDEN":             "Access denied: insufficient permissions",
		"VALIDATION_ERROR":      "Invalid request body",
		"INVALID_ID":            "Invalid identifier",
		"NOT_FOUND":             "Resource not found",
		"INTERNAL_ERROR":        "Internal server error",
		"RATE_LIMITED":          "Too many requests, try again later",
		"EMAIL_EXISTS":          "This email is already registered",
		"INVALID_CREDENTIALS":   "Email or password is incorrect",
		"USER_BANNED":           "This account has been suspended",
		"USER_NOT_FOUND":        "User not found",
		"CANNOT_BAN_SELF":       "Administrators cannot ban themselves",
		"INVALID_ROLE":          "Unknown role",
		"POST_NOT_FOUND":        "Post not found",
		"COMMENT_NOT_FOUND":     "Comment not found",
		"FILE_NOT_FOUND":        "File not found",
		"NO_FILE":               "No file provided",
		"EMPTY_FILE":            "File is empty",
		"FILE_TOO_LARGE":        "File exceeds the maximum allowed size",
		"UNSUPPORTED_FILE_TYPE": "Only PNG and JPEG images are allowed",
	},
	language.Russian: {
		"UNAUTHORIZED":          "Требуется авторизация",
		"AUTH_HEADER_MISSING":   "Отсутствует заголовок Authorization",
		"INVALID_AUTH_FORMAT":   "Заголовок Authorization должен иметь вид 'Bearer <token>'",
		"INVALID_TOKEN":         "Токен недействителен или истёк",
		"FORBIDDEN":             "Доступ запрещён: недостаточно прав",
		"VALIDATION_ERROR":      "Некорректное тело запроса",
		"INVALID_ID":            "Некорректный идентификатор",
		"NOT_FOUND":             "Ресурс не найден",
		"INTERNAL_ERROR":        "Внутренняя ошибка сервера",
		"RATE_LIMITED":          "Слишком много запросов, попробуйте позже",
		"EMAIL_EXISTS":          "Этот email уже зарегистрирован",
		"INVALID_CREDENTIALS":   "Неверный email или пароль",
		"USER_BANNED":           "Аккаунт заблокирован",
		"USER_NOT_FOUND":        "Пользователь не найден",
		"CANNOT_BAN_SELF":       "Администратор не может заблокировать себя",
		"INVALID_ROLE":          "Неизвестная роль",
		"POST_NOT_FOUND":        "Публикация не найдена",
		"COMMENT_NOT_FOUND":     "Комментарий не найден",
		"FILE_NOT_FOUND":        "Файл не найден",
		"NO_FILE":               "Файл не передан",
		"EMPTY_FILE":            "Файл пуст",
		"FILE_TOO_LARGE":        "Файл превышает допустимый размер",
		"UNSUPPORTED_FILE_TYPE": "Разрешены только изображения PNG и JPEG",
	},
}

// Match picks the best supported language for an Accept-Language header.
func Match(acceptLanguage string, fallback language.Tag) language.Tag {
	if acceptLanguage == "" {
		return fallback
	}
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return fallback
	}
	_, idx, conf := matcher.Match(tags...)
	if conf == language.No {
		return fallback
	}
	return supported[idx]
}

// Parse resolves a configured locale such as "en" or "ru" to a supported tag.
func Parse(locale string) language.Tag {
	tag, err := language.Parse(locale)
	if err != nil {
		return language.English
	}
	_, idx, conf := matcher.Match(tag)
	if conf == language.No {
		return language.English
	}
	return supported[idx]
}

func Translate(tag language.Tag, code string) (string, bool) {
	msgs, ok := catalog[tag]
	if !ok {
		return "", false
	}
	msg, ok := msgs[code]
	return msg, ok
}
