package types

import (
	"database/sql/driver"
	"fmt"
	"time"
)

// timeLayout формат времени HH:MM
const timeLayout = "15:04"

// TimeString строковое представление времени в формате HH:MM
// Используется для времени начала/конца слотов и смен
type TimeString string

// NewTimeString создает TimeString из time.Time (отбрасывает секунды)
func NewTimeString(t time.Time) TimeString {
	return TimeString(t.Format(timeLayout))
}

// NewTimeStringFromString парсит строку HH:MM в TimeString
func NewTimeStringFromString(s string) (TimeString, error) {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return "", fmt.Errorf("invalid time string format: %w", err)
	}
	return NewTimeString(t), nil
}

// String возвращает строковое представление HH:MM
func (ts TimeString) String() string {
	return string(ts)
}

// IsZero возвращает true, если значение не установлено
func (ts TimeString) IsZero() bool {
	return ts == ""
}

// Validate проверяет, что значение соответствует формату HH:MM
func (ts TimeString) Validate() error {
	if _, err := time.Parse(timeLayout, string(ts)); err != nil {
		return fmt.Errorf("invalid time string format: %w", err)
	}
	return nil
}

// ToTime конвертирует TimeString в time.Time (дата - нулевая)
func (ts TimeString) ToTime() (time.Time, error) {
	t, err := time.Parse(timeLayout, string(ts))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid time string format: %w", err)
	}
	return t, nil
}

// AddMinutes возвращает новый TimeString, сдвинутый на minutes минут вперед
// Переход через полночь не поддерживается - смены не пересекают границу суток
func (ts TimeString) AddMinutes(minutes int) (TimeString, error) {
	t, err := ts.ToTime()
	if err != nil {
		return "", err
	}
	return NewTimeString(t.Add(time.Duration(minutes) * time.Minute)), nil
}

// IsBefore возвращает true, если ts строго раньше other
// Лексикографическое сравнение корректно для формата HH:MM
func (ts TimeString) IsBefore(other TimeString) bool {
	return string(ts) < string(other)
}

// IsAfter возвращает true, если ts строго позже other
func (ts TimeString) IsAfter(other TimeString) bool {
	return string(ts) > string(other)
}

// Value реализует driver.Valuer для записи в колонку типа time
func (ts TimeString) Value() (driver.Value, error) {
	if ts.IsZero() {
		return nil, nil
	}
	return string(ts), nil
}

// Scan реализует sql.Scanner для чтения из колонки типа time
func (ts *TimeString) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*ts = ""
		return nil
	case time.Time:
		*ts = NewTimeString(v)
		return nil
	case []byte:
		return ts.scanString(string(v))
	case string:
		return ts.scanString(v)
	default:
		return fmt.Errorf("cannot scan %T into TimeString", src)
	}
}

func (ts *TimeString) scanString(s string) error {
	// Postgres возвращает time как HH:MM:SS, обрезаем до HH:MM
	if len(s) > len(timeLayout) {
		s = s[:len(timeLayout)]
	}
	parsed, err := NewTimeStringFromString(s)
	if err != nil {
		return err
	}
	*ts = parsed
	return nil
}
