package transport

import (
	"sales-management/internal/domain"
	"sales-management/internal/service"
)

func toUserInput(username, email, password, role string) service.UserInput {
	return service.UserInput{
		Username: username,
		Email:    email,
		Password: password,
		Role:     domain.ParseRole(role),
	}
}

func toUserResponse(u *domain.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		Role:      string(u.Role),
		Active:    u.Active,
		CreatedAt: u.CreatedAt,
	}
}

func toCategoryInput(req CategoryRequest) service.CategoryInput {
	return service.CategoryInput{
		Name:        req.Name,
		Description: req.Description,
	}
}

func toCategoryResponse(c *domain.Category) CategoryResponse {
	return CategoryResponse{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
	}
}

func toProductInput(req ProductRequest) service.ProductInput {
	in := service.ProductInput{
		ASIN:        req.ASIN,
		Title:       req.Title,
		Rating:      req.Rating,
		ReviewCount: req.ReviewCount,
		Rank:        req.Rank,
		CategoryID:  req.CategoryID,
	}
	if req.Price != nil {
		in.Price = *req.Price
	}
	return in
}

func toProductResponse(p *domain.Product) ProductResponse {
	return ProductResponse{
		ID:           p.ID,
		ASIN:         p.ASIN,
		Title:        p.Title,
		Price:        p.Price,
		Rating:       p.Rating,
		ReviewCount:  p.ReviewCount,
		Rank:         p.Rank,
		CategoryID:   p.CategoryID,
		CategoryName: p.CategoryName,
	}
}

// toCreateSaleInput resolves the seller. Only an admin may record a sale for another user.
func toCreateSaleInput(req CreateSaleRequest, callerID int64, callerRole domain.Role) (service.CreateSaleInput, error) {
	userID := req.UserID
	if userID == 0 {
		userID = callerID
	}
	if userID != callerID && callerRole != domain.RoleAdmin {
		return service.CreateSaleInput{}, domain.ForbiddenOperation("only an admin may record a sale for another user")
	}

	lines := make([]service.SaleLineInput, len(req.Lines))
	for i, l := range req.Lines {
		lines[i] = service.SaleLineInput{ProductID: l.ProductID, Quantity: l.Quantity}
	}

	return service.CreateSaleInput{
		UserID:   userID,
		SaleDate: req.SaleDate,
		Lines:    lines,
	}, nil
}

func toSaleLineResponse(l domain.SaleLine) SaleLineResponse {
	return SaleLineResponse{
		ID:           l.ID,
		SaleID:       l.SaleID,
		ProductID:    l.ProductID,
		ProductTitle: l.ProductTitle,
		Quantity:     l.Quantity,
		UnitPrice:    l.UnitPrice,
		LineTotal:    l.LineTotal,
	}
}

func toSaleLineResponses(lines []domain.SaleLine) []SaleLineResponse {
	out := make([]SaleLineResponse, 0, len(lines))
	for _, l := range lines {
		out = append(out, toSaleLineResponse(l))
	}
	return out
}

func toSaleResponse(s *domain.Sale) SaleResponse {
	return SaleResponse{
		ID:          s.ID,
		UserID:      s.UserID,
		Username:    s.Username,
		SaleDate:    s.SaleDate,
		TotalAmount: s.TotalAmount,
		Lines:       toSaleLineResponses(s.Lines),
	}
}

func mapAll[T, R any](items []T, fn func(T) R) []R {
	out := make([]R, 0, len(items))
	for _, item := range items {
		out = append(out, fn(item))
	}
	return out
}

func toPageResponse[T, R any](p domain.Page[T], fn func(T) R) PageResponse[R] {
	mapped := domain.MapPage(p, fn)
	return PageResponse[R]{
		Content:       mapped.Content,
		Page:          mapped.Page,
		Size:          mapped.Size,
		TotalElements: mapped.TotalElements,
		TotalPages:    mapped.TotalPages,
	}
}

func toKPIResponse(k *domain.KPI) KPIResponse {
	return KPIResponse{
		TotalRevenue:  k.TotalRevenue,
		SalesCount:    k.SalesCount,
		AverageBasket: k.AverageBasket,
		ProductsCount: k.ProductsCount,
		UsersCount:    k.UsersCount,
	}
}

func toMonthlySalesResponse(m domain.MonthlySales) MonthlySalesResponse {
	return MonthlySalesResponse{Month: m.Month, Revenue: m.Revenue, SalesCount: m.SalesCount}
}

func toProductSalesResponse(p domain.ProductSales) ProductSalesResponse {
	return ProductSalesResponse{
		ProductID:    p.ProductID,
		Title:        p.Title,
		QuantitySold: p.QuantitySold,
		Revenue:      p.Revenue,
	}
}

func toCategorySalesResponse(c domain.CategorySales) CategorySalesResponse {
	return CategorySalesResponse{
		CategoryID:   c.CategoryID,
		Name:         c.Name,
		QuantitySold: c.QuantitySold,
		Revenue:      c.Revenue,
	}
}
