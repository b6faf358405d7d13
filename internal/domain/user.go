package domain

type User struct {
	ID       int64  `db:"id"`
	Username string `db:"username"`
	Hash     string `db:"password_hash"`
}
