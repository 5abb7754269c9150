package repositories

// Store is the CRUD surface every content repository exposes. The generic
// resource handler is parameterized over it, so each new collection only
// needs a repository, not another hand-written controller.
type Store[T any] interface {
	Create(e *T) (int64, error)
	GetByID(id int64) (*T, error)
	Update(id int64, e *T) error
	Delete(id int64) error
	List(limit, offset int) ([]T, error)
}
