package domain

// CustomerRepository описывает требования к хранилищу покупателей.
type CustomerRepository interface {
	// Create сохраняет нового покупателя. Возвращает ErrCustomerExists, если ID занят,
	// и ErrEmailTaken при нарушении уникальности email.
	Create(customer Customer) error
	// FindByID возвращает покупателя или ErrCustomerNotFound, если его нет.
	FindByID(id string) (Customer, error)
	// FindByEmail возвращает покупателя с данным email или ErrCustomerNotFound.
	FindByEmail(email string) (Customer, error)
}

// ProductRepository описывает требования к хранилищу товаров.
type ProductRepository interface {
	// Create сохраняет новый товар. Возвращает ErrProductExists, если ID занят,
	// и ErrProductNameTaken при нарушении уникальности имени.
	Create(product Product) error
	// FindByID возвращает товар или ErrProductNotFound, если его нет.
	FindByID(id string) (Product, error)
	// FindByName возвращает товар с данным именем или ErrProductNotFound.
	FindByName(name string) (Product, error)
	// FindAllByID возвращает товары по списку идентификаторов. Если найдено меньше
	// записей, чем элементов во входном списке (дубликаты идентификаторов считаются
	// отдельно), возвращается ErrNotFound.
	FindAllByID(ids []string) ([]Product, error)
	// UpdateQuantity вычитает количество из остатка каждого найденного товара и
	// сохраняет его. Результат может уходить в минус; идентификаторы, отсутствующие
	// в хранилище, молча пропускаются. Возвращает список обновлённых товаров.
	UpdateQuantity(items []ProductQuantity) ([]Product, error)
}

// OrderRepository описывает требования к хранилищу заказов.
type OrderRepository interface {
	// Create сохраняет новый заказ вместе с позициями. Возвращает ErrOrderExists,
	// если запись с таким ID уже существует.
	Create(order Order) error
	// Get возвращает заказ по идентификатору или ErrOrderNotFound, если его нет.
	Get(id string) (Order, error)
	// ListByCustomer возвращает заказы покупателя с опциональным ограничением на количество.
	ListByCustomer(customerID string, limit int) ([]Order, error)
}
