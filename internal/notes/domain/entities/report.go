package entities

// StoreReport содержит результат проверки хранилища заметок.
type StoreReport struct {
	Total           int
	WithoutCategory int
	Samples         []*Note
}
