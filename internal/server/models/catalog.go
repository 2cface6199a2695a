package models

type Post struct {
	ID       string
	AuthorID string
	Title    string
}

type Competition struct {
	ID   string
	Name string
}

type Person struct {
	ID          string
	DisplayName string
}
