package bidhandler

type PlaceBidBody struct {
	Amount float64 `json:"amount" binding:"required,gt=0" example:"125.50"`
} // @name PlaceBidRequest

type BidPageQuery struct {
	Page     int `form:"page,default=1"       binding:"gte=1"`
	PageSize int `form:"page_size,default=50" binding:"gte=1,lte=100"`
} // @name BidPageQuery

type UserBidsQuery struct {
	Page     int    `form:"page,default=1"       binding:"gte=1"`
	PageSize int    `form:"page_size,default=20" binding:"gte=1,lte=100"`
	Status   string `form:"status"               binding:"omitempty,oneof=active won lost"`
} // @name UserBidsQuery
