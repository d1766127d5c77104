package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/polkiloo/storefront/internal/domain/model"
	"github.com/polkiloo/storefront/internal/domain/promo"
)

// ValidatePromoQuery is the query string of the read-only validation endpoint.
type ValidatePromoQuery struct {
	Code    string  `form:"code" binding:"required,max=64"`
	OrderID *int64  `form:"orderId" binding:"omitempty,gt=0"`
	Amount  *string `form:"amount" binding:"omitempty,numeric"`
}

// ApplyPromoRequest attaches a code to an order from the checkout flow.
type ApplyPromoRequest struct {
	OrderID int64  `json:"orderId" binding:"required,gt=0"`
	Code    string `json:"code" binding:"required,max=64"`
}

// RemovePromoRequest detaches the code from an order from the checkout flow.
type RemovePromoRequest struct {
	OrderID int64 `json:"orderId" binding:"required,gt=0"`
}

// AdminApplyPromoRequest attaches a code to an order from the back office.
type AdminApplyPromoRequest struct {
	Code string `json:"code" binding:"required,max=64"`
}

// DiscountResponse is the computed discount of a valid code.
type DiscountResponse struct {
	Type    string  `json:"type"`
	Total   string  `json:"total"`
	Amount  *string `json:"amount,omitempty"`
	Percent *string `json:"percent,omitempty"`
}

// PromoValidationResponse is the validator outcome.
type PromoValidationResponse struct {
	IsValid  bool              `json:"isValid"`
	Message  string            `json:"message,omitempty"`
	Code     string            `json:"code,omitempty"`
	Discount *DiscountResponse `json:"discount,omitempty"`
}

// NewPromoValidationResponse converts a validator result.
func NewPromoValidationResponse(r promo.Result) PromoValidationResponse {
	resp := PromoValidationResponse{IsValid: r.Valid, Message: r.Message, Code: r.Code}
	if r.Discount != nil {
		resp.Discount = &DiscountResponse{
			Type:    string(r.Discount.Type),
			Total:   Money(r.Discount.Total),
			Amount:  nullMoney(r.Discount.Amount),
			Percent: nullMoney(r.Discount.Percent),
		}
	}
	return resp
}

// PromoCodeRequest creates or replaces a promo code definition.
type PromoCodeRequest struct {
	Code            string           `json:"code" binding:"required,max=64"`
	Description     string           `json:"description" binding:"max=500"`
	DiscountType    string           `json:"discountType" binding:"required,oneof=NONE FLAT PERCENTAGE BOTH"`
	DiscountAmount  *decimal.Decimal `json:"discountAmount"`
	DiscountPercent *decimal.Decimal `json:"discountPercent"`
	HasExpiryDate   bool             `json:"hasExpiryDate"`
	ExpiryDate      *time.Time       `json:"expiryDate"`
	IsActive        *bool            `json:"isActive"`
	MaxUses         *int             `json:"maxUses"`
	MinOrderAmount  *decimal.Decimal `json:"minOrderAmount"`
}

// ToModel builds the domain definition. IsActive defaults to true.
func (r PromoCodeRequest) ToModel() *model.PromoCode {
	code := &model.PromoCode{
		Code:            r.Code,
		Description:     r.Description,
		DiscountType:    model.DiscountType(r.DiscountType),
		DiscountAmount:  nullDecimal(r.DiscountAmount),
		DiscountPercent: nullDecimal(r.DiscountPercent),
		HasExpiryDate:   r.HasExpiryDate,
		ExpiryDate:      r.ExpiryDate,
		IsActive:        true,
		MaxUses:         r.MaxUses,
		MinOrderAmount:  nullDecimal(r.MinOrderAmount),
	}
	if r.IsActive != nil {
		code.IsActive = *r.IsActive
	}
	return code
}

func nullDecimal(d *decimal.Decimal) decimal.NullDecimal {
	if d == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(*d)
}

func nullMoney(d decimal.NullDecimal) *string {
	if !d.Valid {
		return nil
	}
	s := d.Decimal.String()
	return &s
}

// PromoCodeResponse is a stored promo code.
type PromoCodeResponse struct {
	ID              int64      `json:"id"`
	Code            string     `json:"code"`
	Description     string     `json:"description,omitempty"`
	DiscountType    string     `json:"discountType"`
	DiscountAmount  *string    `json:"discountAmount"`
	DiscountPercent *string    `json:"discountPercent"`
	HasExpiryDate   bool       `json:"hasExpiryDate"`
	ExpiryDate      *time.Time `json:"expiryDate"`
	IsActive        bool       `json:"isActive"`
	MaxUses         *int       `json:"maxUses"`
	UsedCount       int        `json:"usedCount"`
	MinOrderAmount  *string    `json:"minOrderAmount"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
}

// NewPromoCodeResponse converts a domain promo code.
func NewPromoCodeResponse(p model.PromoCode) PromoCodeResponse {
	return PromoCodeResponse{
		ID:              p.ID,
		Code:            p.Code,
		Description:     p.Description,
		DiscountType:    string(p.DiscountType),
		DiscountAmount:  nullMoney(p.DiscountAmount),
		DiscountPercent: nullMoney(p.DiscountPercent),
		HasExpiryDate:   p.HasExpiryDate,
		ExpiryDate:      p.ExpiryDate,
		IsActive:        p.IsActive,
		MaxUses:         p.MaxUses,
		UsedCount:       p.UsedCount,
		MinOrderAmount:  nullMoney(p.MinOrderAmount),
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	}
}

// AssignmentRequest grants a code to a user.
type AssignmentRequest struct {
	UserID      int64      `json:"userId" binding:"required,gt=0"`
	IsExclusive bool       `json:"isExclusive"`
	ExpiryDate  *time.Time `json:"expiryDate"`
}

// ExclusionRequest bans a user from a code.
type ExclusionRequest struct {
	UserID int64 `json:"userId" binding:"required,gt=0"`
}

// AssignmentResponse is one per-user grant.
type AssignmentResponse struct {
	UserID        int64      `json:"userId"`
	PromoCodeID   int64      `json:"promoCodeId"`
	IsExclusive   bool       `json:"isExclusive"`
	HasExpiryDate bool       `json:"hasExpiryDate"`
	ExpiryDate    *time.Time `json:"expiryDate"`
	AssignedAt    time.Time  `json:"assignedAt"`
	UsedAt        *time.Time `json:"usedAt"`
}

// NewAssignmentResponse converts a domain assignment.
func NewAssignmentResponse(a model.UserPromoCode) AssignmentResponse {
	return AssignmentResponse{
		UserID:        a.UserID,
		PromoCodeID:   a.PromoCodeID,
		IsExclusive:   a.IsExclusive,
		HasExpiryDate: a.HasExpiryDate,
		ExpiryDate:    a.ExpiryDate,
		AssignedAt:    a.AssignedAt,
		UsedAt:        a.UsedAt,
	}
}

// ExclusionResponse is one per-user ban.
type ExclusionResponse struct {
	UserID     int64     `json:"userId"`
	ExcludedAt time.Time `json:"excludedAt"`
}

// PromoDetailsResponse is a promo code with its per-user lists.
type PromoDetailsResponse struct {
	PromoCodeResponse
	Assignments []AssignmentResponse `json:"assignments"`
	Exclusions  []ExclusionResponse  `json:"exclusions"`
}

// NewPromoDetailsResponse converts a code with its assignments and exclusions.
func NewPromoDetailsResponse(code model.PromoCode, assignments []model.UserPromoCode, exclusions []model.ExcludedUser) PromoDetailsResponse {
	resp := PromoDetailsResponse{
		PromoCodeResponse: NewPromoCodeResponse(code),
		Assignments:       make([]AssignmentResponse, 0, len(assignments)),
		Exclusions:        make([]ExclusionResponse, 0, len(exclusions)),
	}
	for _, a := range assignments {
		resp.Assignments = append(resp.Assignments, NewAssignmentResponse(a))
	}
	for _, e := range exclusions {
		resp.Exclusions = append(resp.Exclusions, ExclusionResponse{UserID: e.UserID, ExcludedAt: e.ExcludedAt})
	}
	return resp
}
