package types

import "time"

// OrderStatus is the lifecycle stage of an order. Values are stored by name.
type OrderStatus string

// Order statuses.
const (
	StatusNotStarted OrderStatus = "NotStarted"
	StatusLoading    OrderStatus = "Loading"
	StatusInProgress OrderStatus = "InProgress"
	StatusArrived    OrderStatus = "Arrived"
	StatusUnloading  OrderStatus = "Unloading"
	StatusCancelled  OrderStatus = "Cancelled"
	StatusDone       OrderStatus = "Done"
)

// OrderStatuses lists every status in lifecycle order.
var OrderStatuses = []OrderStatus{
	StatusNotStarted,
	StatusLoading,
	StatusInProgress,
	StatusArrived,
	StatusUnloading,
	StatusCancelled,
	StatusDone,
}

// validOrderStatuses is the set of recognized status values.
var validOrderStatuses = map[OrderStatus]bool{
	StatusNotStarted: true,
	StatusLoading:    true,
	StatusInProgress: true,
	StatusArrived:    true,
	StatusUnloading:  true,
	StatusCancelled:  true,
	StatusDone:       true,
}

// Valid reports whether s is a recognized status.
func (s OrderStatus) Valid() bool {
	return validOrderStatuses[s]
}

// ParseOrderStatus returns the status named s.
// Returns ErrInvalidStatus if s is not recognized.
func ParseOrderStatus(s string) (OrderStatus, error) {
	status := OrderStatus(s)
	if !status.Valid() {
		return "", ErrInvalidStatus
	}
	return status, nil
}

// Order is a shipment of one product.
type Order struct {
	ID          int64       `json:"id"`
	Status      OrderStatus `json:"status"`
	CreatedDate time.Time   `json:"created_date"`
	UpdatedDate time.Time   `json:"updated_date"`
	ProductID   int64       `json:"product_id"`
}

var _ Record[Order] = Order{}

// Identity returns the order ID.
func (o Order) Identity() int64 { return o.ID }

// WithIdentity returns a copy of o with ID set to id.
func (o Order) WithIdentity(id int64) Order {
	o.ID = id
	return o
}

// Equal compares orders field by field. Dates compare as instants.
func (o Order) Equal(other Order) bool {
	return o.ID == other.ID &&
		o.Status == other.Status &&
		o.CreatedDate.Equal(other.CreatedDate) &&
		o.UpdatedDate.Equal(other.UpdatedDate) &&
		o.ProductID == other.ProductID
}

// Validate returns ErrInvalidStatus for an unknown status and
// ErrInvalidProduct when no product is referenced.
func (o Order) Validate() error {
	if !o.Status.Valid() {
		return ErrInvalidStatus
	}
	if o.ProductID == 0 {
		return ErrInvalidProduct
	}
	return nil
}

// Normalized returns a copy of o with both dates in UTC. Month and year
// searches operate on the UTC calendar.
func (o Order) Normalized() Order {
	o.CreatedDate = o.CreatedDate.UTC()
	o.UpdatedDate = o.UpdatedDate.UTC()
	return o
}

// DateRange is a half-open interval [From, To) over CreatedDate.
type DateRange struct {
	From time.Time
	To   time.Time
}

// Validate returns ErrInvalidRange unless From precedes To.
func (r DateRange) Validate() error {
	if !r.From.Before(r.To) {
		return ErrInvalidRange
	}
	return nil
}

// Order predicates shared by both repository implementations.

// OrdersInMonth matches orders created in the given calendar month of any year.
func OrdersInMonth(month int) Filter[Order] {
	return func(o Order) bool { return int(o.CreatedDate.UTC().Month()) == month }
}

// OrdersInYear matches orders created in the given year.
func OrdersInYear(year int) Filter[Order] {
	return func(o Order) bool { return o.CreatedDate.UTC().Year() == year }
}

// OrdersWithStatus matches orders in the given status.
func OrdersWithStatus(status OrderStatus) Filter[Order] {
	return func(o Order) bool { return o.Status == status }
}

// OrdersForProduct matches orders referencing the given product.
func OrdersForProduct(productID int64) Filter[Order] {
	return func(o Order) bool { return o.ProductID == productID }
}

// OrdersCreatedIn matches orders whose CreatedDate falls inside r.
func OrdersCreatedIn(r DateRange) Filter[Order] {
	return func(o Order) bool {
		return !o.CreatedDate.Before(r.From) && o.CreatedDate.Before(r.To)
	}
}

// ValidateMonth returns ErrInvalidMonth unless 1 <= month <= 12.
func ValidateMonth(month int) error {
	if month < 1 || month > 12 {
		return ErrInvalidMonth
	}
	return nil
}
