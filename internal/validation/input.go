package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// Константы валидации
const (
	MaxGigTitleLength       = 200
	MaxGigDescriptionLength = 10000
	MaxBidMessageLength     = 5000
	MinNameLength           = 2
	MaxNameLength           = 100
	MaxSearchLength         = 200
	MaxSearchTerms          = 10
)

var (
	emailLocalRegex  = regexp.MustCompile(`^[a-z0-9._+-]+$`)
	emailDomainRegex = regexp.MustCompile(`^[a-z0-9.-]+\.[a-z]{2,}$`)
)

// ValidateLength проверяет длину строки в символах.
func ValidateLength(fieldName, value string, min, max int) error {
	length := utf8.RuneCountInString(value)
	if min > 0 && length < min {
		return fmt.Errorf("%s должен быть не менее %d символов", fieldName, min)
	}
	if max > 0 && length > max {
		return fmt.Errorf("%s должен быть не более %d символов", fieldName, max)
	}
	return nil
}

// ValidateNonEmpty проверяет, что строка не пустая.
func ValidateNonEmpty(fieldName, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%s не может быть пустым", fieldName)
	}
	return nil
}

// ValidateEmail проверяет формат email.
func ValidateEmail(email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return fmt.Errorf("email обязателен")
	}

	parts := strings.Split(email, "@")
	if len(parts) != 2 {
		return fmt.Errorf("некорректный формат email")
	}

	localPart, domainPart := parts[0], parts[1]

	if len(localPart) == 0 || len(localPart) > 64 {
		return fmt.Errorf("локальная часть email должна быть от 1 до 64 символов")
	}
	if len(domainPart) == 0 || len(domainPart) > 255 {
		return fmt.Errorf("доменная часть email должна быть от 1 до 255 символов")
	}
	if !emailLocalRegex.MatchString(localPart) {
		return fmt.Errorf("локальная часть email содержит недопустимые символы")
	}
	if !emailDomainRegex.MatchString(domainPart) {
		return fmt.Errorf("доменная часть email имеет некорректный формат")
	}

	return nil
}

// ValidateName проверяет отображаемое имя пользователя.
func ValidateName(name string) error {
	if err := ValidateNonEmpty("имя", name); err != nil {
		return err
	}
	return ValidateLength("имя", strings.TrimSpace(name), MinNameLength, MaxNameLength)
}

// ValidateGigTitle проверяет название заказа.
func ValidateGigTitle(title string) error {
	if err := ValidateNonEmpty("название заказа", title); err != nil {
		return err
	}
	return ValidateLength("название заказа", strings.TrimSpace(title), 1, MaxGigTitleLength)
}

// ValidateGigDescription проверяет описание заказа.
func ValidateGigDescription(description string) error {
	if err := ValidateNonEmpty("описание заказа", description); err != nil {
		return err
	}
	return ValidateLength("описание заказа", strings.TrimSpace(description), 1, MaxGigDescriptionLength)
}

// ValidateBidMessage проверяет текст отклика.
func ValidateBidMessage(message string) error {
	if err := ValidateNonEmpty("сообщение", message); err != nil {
		return err
	}
	return ValidateLength("сообщение", strings.TrimSpace(message), 1, MaxBidMessageLength)
}

// SearchTerms разбивает поисковую строку на слова, обрезая лишнее.
func SearchTerms(search string) []string {
	search = strings.TrimSpace(search)
	if utf8.RuneCountInString(search) > MaxSearchLength {
		search = string([]rune(search)[:MaxSearchLength])
	}

	terms := strings.Fields(strings.ToLower(search))
	if len(terms) > MaxSearchTerms {
		terms = terms[:MaxSearchTerms]
	}
	return terms
}
