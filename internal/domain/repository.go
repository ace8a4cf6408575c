package domain

// OrderRepository описывает требования к хранилищу заказов.
type OrderRepository interface {
	// Create сохраняет новый заказ. Возвращает ErrOrderAlreadyExists, если запись с таким ID уже есть.
	Create(order *Order) error
	// Get возвращает заказ по идентификатору или ErrOrderNotFound, если его нет.
	Get(id string) (*Order, error)
	// Save перезаписывает существующий заказ.
	Save(order *Order) error
	// ListByCustomer возвращает заказы клиента, новые первыми, с опциональным лимитом.
	ListByCustomer(customerID string, limit int) ([]*Order, error)
	// ListAll возвращает все заказы, новые первыми.
	ListAll(limit int) ([]*Order, error)
	// ListByStatus возвращает заказы в указанном статусе, новые первыми.
	ListByStatus(status OrderStatus, limit int) ([]*Order, error)
}

// ProductRepository — хранилище каталога меню.
type ProductRepository interface {
	Get(id string) (Product, error)
	List() ([]Product, error)
	ListAvailable() ([]Product, error)
	ListByCategory(category Category) ([]Product, error)
	Save(product Product) error
	Delete(id string) error
}

// CustomerRepository — справочник клиентов. Email уникален.
type CustomerRepository interface {
	Get(id string) (Customer, error)
	GetByEmail(email string) (Customer, error)
	List() ([]Customer, error)
	Save(customer Customer) error
}
