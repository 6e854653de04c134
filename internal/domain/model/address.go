package model

// Address is an address-book entry used once, at submission time, to
// snapshot delivery fields onto the order.
type Address struct {
	ID        int64
	UserID    int64
	Consignee string
	Phone     string
	Province  string
	City      string
	District  string
	Detail    string
}

// FullAddress concatenates the address components. Absent components are
// empty strings, so the result never contains placeholders.
func (a Address) FullAddress() string {
	return a.Province + a.City + a.District + a.Detail
}
