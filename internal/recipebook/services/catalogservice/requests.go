package catalogservice

type ItemRequest struct {
	Name string `json:"name"`
}

type ListRequest struct {
	AssignedOnly bool
}
