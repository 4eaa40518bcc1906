package model

// カートの1明細。購入前は数量を自由に変更できる。
// 同一性キーは (ProductID, Size, Color)。同じキーはカート内で必ず1行にまとめる。
type LineItem struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	UnitPrice int64  `json:"unit_price"`
	Quantity  int64  `json:"quantity"`
	ImageURL  string `json:"image_url"`
	Size      string `json:"size"`
	Color     string `json:"color"`
}

// LineItemKey は明細の同一性キー
type LineItemKey struct {
	ProductID string
	Size      string
	Color     string
}

func (i LineItem) Key() LineItemKey {
	return LineItemKey{ProductID: i.ProductID, Size: i.Size, Color: i.Color}
}
