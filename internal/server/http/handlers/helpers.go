package handlers

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"

	domainErrors "github.com/polkiloo/gophershop/internal/domain/errors"
	"github.com/polkiloo/gophershop/internal/domain/model"
	"github.com/polkiloo/gophershop/internal/server/http/dto"
)

// statusFromError maps domain sentinels onto HTTP status codes.
func statusFromError(err error) int {
	switch {
	case errors.Is(err, domainErrors.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domainErrors.ErrInvalidState), errors.Is(err, domainErrors.ErrAlreadyExists):
		return http.StatusConflict
	case errors.Is(err, domainErrors.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, domainErrors.ErrInvalidCredentials):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

func toProductResponse(product model.Product) dto.ProductResponse {
	resp := dto.ProductResponse{
		ID:             product.ID,
		Slug:           product.Slug,
		Name:           product.Name,
		Price:          product.Price,
		Category:       product.Category,
		SubCategory:    product.SubCategory,
		Description:    product.Description,
		Status:         string(product.Status),
		BonusItems:     product.BonusItems,
		DeliveryMode:   string(product.Delivery()),
		ExpirationDays: product.ExpirationDays,
		CreatedAt:      product.CreatedAt,
	}
	if product.ImageName != "" {
		resp.ImageURL = "/images/" + product.ImageName
	}
	return resp
}

func toOrderResponse(order model.Order) dto.OrderResponse {
	resp := dto.OrderResponse{
		ID:            order.ID,
		ProductID:     order.ProductID,
		ProductName:   order.ProductName,
		Price:         order.Price,
		PaymentMethod: order.PaymentMethod,
		Status:        string(order.Status),
		ClaimCode:     order.ClaimCode,
		IsProof:       order.IsProof,
		CreatedAt:     order.CreatedAt,
		UpdatedAt:     order.UpdatedAt,
	}
	if order.ReceiptName != "" {
		resp.ReceiptURL = "/receipts/" + order.ReceiptName
	}
	return resp
}

// readUpload drains a multipart file into an in-memory upload.
func readUpload(header *multipart.FileHeader) (*model.AssetUpload, error) {
	file, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, err
	}
	return &model.AssetUpload{
		FileName:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}
