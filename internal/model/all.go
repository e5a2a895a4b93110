package model

// All lists every persisted model in migration order.
func All() []any {
	return []any{
		&Role{}, &User{},
		&RawMaterial{}, &Product{}, &ProductComponent{},
		&Supplier{}, &Purchase{}, &PurchaseLine{},
		&Sale{}, &Comment{}, &Quotation{}, &QuotationLine{},
	}
}
