package userservice

// User пользователь портала
type User struct {
	ID       int64  `json:"id"`
	Email    string `json:"email"`
	Fio      string `json:"fio"`
	ShortFio string `json:"shortFio"`
	Status   string `json:"status"`
}

