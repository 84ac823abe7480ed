package logger

type Field struct {
	Key   string
	Value string
}

// Logger Интерфейс для "быстрой" замены логгера.
// Достаточно реализовать дополнительный адаптер для нового логгера.
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Error(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
}

// Err Поле с текстом ошибки под ключом "err". nil ошибка пишется как пустая строка.
func Err(err error) Field {
	if err == nil {
		return String("err", "")
	}

	return String("err", err.Error())
}
