package authhandler

type RegisterBody struct {
	FirstName   string `json:"first_name"   binding:"required,max=100"        example:"Alice"`
	LastName    string `json:"last_name"    binding:"required,max=100"        example:"Walker"`
	Email       string `json:"email"        binding:"required,email"          example:"alice@example.com"`
	Password    string `json:"password"     binding:"required,min=8"`
	AccountType string `json:"account_type" binding:"required,oneof=Buyer Seller" example:"Buyer"`
} // @name RegisterRequest

type LoginBody struct {
	Email    string `json:"email"    binding:"required,email" example:"alice@example.com"`
	Password string `json:"password" binding:"required"`
} // @name LoginRequest
