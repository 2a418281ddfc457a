package usecase

import (
	"github.com/kajamart/admin-api/internal/application/dto"
	"github.com/kajamart/admin-api/internal/domain/entity"
	"github.com/kajamart/admin-api/internal/domain/rbac"
)

// ToProductResponse serializa un producto.
func ToProductResponse(p entity.Product) dto.ProductResponse {
	return dto.ProductResponse{
		ID:           p.ID,
		Name:         p.Name,
		Barcode:      p.Barcode,
		CategoryID:   p.CategoryID,
		CategoryName: p.CategoryName,
		Price:        p.Price,
		Stock:        p.Stock,
		Status:       p.Status,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}

func toDetailResponse(d entity.ProductDetail) dto.ProductDetailResponse {
	return dto.ProductDetailResponse{
		ID:          d.ID,
		ProductID:   d.ProductID,
		ProductName: d.ProductName,
		Barcode:     d.Barcode,
		ExpiresAt:   d.ExpiresAt,
		Stock:       d.Stock,
		Status:      d.Status,
	}
}

func toCategoryResponse(c entity.Category) dto.CategoryResponse {
	return dto.CategoryResponse{ID: c.ID, Name: c.Name, Description: c.Description, Status: c.Status}
}

func toClientResponse(c entity.Client) dto.ClientResponse {
	return dto.ClientResponse{
		ID:       c.ID,
		Document: c.Document,
		Name:     c.Name,
		Email:    c.Email,
		Phone:    c.Phone,
		Address:  c.Address,
		Status:   c.Status,
	}
}

func toSupplierResponse(s entity.Supplier) dto.SupplierResponse {
	products := make([]dto.SupplierProductDTO, 0, len(s.Products))
	for _, p := range s.Products {
		products = append(products, dto.SupplierProductDTO{ProductID: p.ProductID, Name: p.Name, Price: p.Price, Stock: p.Stock})
	}
	return dto.SupplierResponse{
		ID:       s.ID,
		NIT:      s.NIT,
		Name:     s.Name,
		Contact:  s.Contact,
		Email:    s.Email,
		Phone:    s.Phone,
		Status:   s.Status,
		Products: products,
	}
}

func toSaleResponse(s entity.Sale) dto.SaleResponse {
	return dto.SaleResponse{
		ID:            s.ID,
		ClientName:    s.ClientName,
		Date:          s.Date,
		Total:         s.Total,
		PaymentMethod: s.PaymentMethod,
		Status:        s.Status,
	}
}

func toPurchaseResponse(p entity.Purchase) dto.PurchaseResponse {
	return dto.PurchaseResponse{ID: p.ID, SupplierName: p.SupplierName, Date: p.Date, Total: p.Total, Status: p.Status}
}

func toUserResponse(u entity.User) dto.UserResponse {
	return dto.UserResponse{
		ID:        u.ID,
		Document:  u.Document,
		Name:      u.Name,
		Email:     u.Email,
		RoleID:    u.RoleID,
		RoleName:  u.RoleName,
		Status:    u.Status,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

func toPermissionDTOs(perms []entity.Permission) []dto.PermissionDTO {
	out := make([]dto.PermissionDTO, 0, len(perms))
	for _, p := range perms {
		out = append(out, dto.PermissionDTO{ID: p.ID, Module: p.Module, Action: p.Action})
	}
	return out
}

// toRoleResponse incluye la matriz completa (todas las filas, marcadas o no) para pintar los checkboxes.
func toRoleResponse(r entity.Role) dto.RoleResponse {
	m, err := rbac.MatrixFrom(r.Permissions)
	if err != nil {
		m = rbac.NewMatrix()
	}
	rows := make([]dto.MatrixRow, 0, len(rbac.Modules))
	for _, module := range rbac.Modules {
		actions := make(map[string]bool, len(rbac.Actions))
		for _, action := range rbac.Actions {
			actions[action] = m.Has(module, action)
		}
		rows = append(rows, dto.MatrixRow{Module: module, Actions: actions})
	}
	return dto.RoleResponse{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		Status:      r.Status,
		Permissions: toPermissionDTOs(r.Permissions),
		Matrix:      rows,
	}
}

// ToReturnRecordResponse serializa un registro confirmado.
func ToReturnRecordResponse(r entity.ReturnRecord) dto.ReturnRecordResponse {
	items := make([]dto.ReturnItemDTO, 0, len(r.Items))
	for _, it := range r.Items {
		items = append(items, dto.ReturnItemDTO{ProductID: it.ProductID, Name: it.Name, Quantity: it.Quantity, Reason: it.Reason})
	}
	return dto.ReturnRecordResponse{
		ID:            r.ID,
		Number:        r.Number,
		Kind:          r.Kind,
		Responsible:   r.Responsible,
		ClientName:    r.ClientName,
		Reason:        r.Reason,
		Note:          r.Note,
		Date:          r.Date,
		TotalQuantity: r.TotalQuantity(),
		Items:         items,
	}
}
