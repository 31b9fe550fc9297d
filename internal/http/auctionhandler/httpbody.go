package auctionhandler

import "time"

type CreateAuctionBody struct {
	Title         string    `json:"title"          binding:"required,max=200"`
	Description   string    `json:"description"    binding:"required,max=2000"`
	Category      string    `json:"category"       binding:"required,max=50"`
	Condition     string    `json:"condition"      binding:"max=100"`
	Location      string    `json:"location"       binding:"max=500"`
	ShippingInfo  string    `json:"shipping_info"  binding:"max=500"`
	StartingPrice float64   `json:"starting_price" binding:"required,gt=0"`
	ReservePrice  *float64  `json:"reserve_price"  binding:"omitempty,gt=0"`
	StartTime     time.Time `json:"start_time"     binding:"required" example:"2025-07-27T16:05:05Z"`
	EndTime       time.Time `json:"end_time"       binding:"required" example:"2025-07-30T16:05:05Z"`
	IsFeatured    bool      `json:"is_featured"`
} // @name CreateAuctionRequest

type UpdateAuctionBody struct {
	Title        string    `json:"title"         binding:"required,max=200"`
	Description  string    `json:"description"   binding:"required,max=2000"`
	Category     string    `json:"category"      binding:"required,max=50"`
	Condition    string    `json:"condition"     binding:"max=100"`
	Location     string    `json:"location"      binding:"max=500"`
	ShippingInfo string    `json:"shipping_info" binding:"max=500"`
	ReservePrice *float64  `json:"reserve_price" binding:"omitempty,gt=0"`
	EndTime      time.Time `json:"end_time"      binding:"required"`
	IsFeatured   bool      `json:"is_featured"`
} // @name UpdateAuctionRequest

type AddImageBody struct {
	ImageURL     string `json:"image_url"     binding:"required,url,max=500"`
	AltText      string `json:"alt_text"      binding:"max=200"`
	IsPrimary    bool   `json:"is_primary"`
	DisplayOrder int    `json:"display_order" binding:"gte=0"`
} // @name AddImageRequest

type ListAuctionsQuery struct {
	Page     int    `form:"page,default=1"       binding:"gte=1"`
	PageSize int    `form:"page_size,default=20" binding:"gte=1,lte=100"`
	Category string `form:"category"             binding:"omitempty,max=50"`
	Search   string `form:"search"               binding:"omitempty,max=200"`
} // @name ListAuctionsQuery

type PageQuery struct {
	Page     int `form:"page,default=1"       binding:"gte=1"`
	PageSize int `form:"page_size,default=20" binding:"gte=1,lte=100"`
} // @name PageQuery
