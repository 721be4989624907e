package repository

type Verification struct {
	ID          string
	UserEmail   string
	Status      string
	Type        string
	FaydaID     string
	ApiProvider string
	Metadata    string
	CreatedAt   int64
}
