package database

import "errors"

var (
	ErrConnectionBuild     = errors.New("не удалось создать пул соединений")
	ErrConnection          = errors.New("не удалось получить соединение из пула")
	ErrStatement           = errors.New("ошибка выполнения запроса")
	ErrNotFoundOrAmbiguous = errors.New("ожидалась ровно одна строка")
	ErrAlreadyInitialized  = errors.New("пул соединений уже инициализирован")
)
