package dto

import (
	"reflect"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"bizdesk/internal/domain/inventory"
	"bizdesk/internal/domain/sales"
)

var registerOnce sync.Once

// RegisterValidators adds the domain tags to gin's validator:
//
//	payment_method  cash, card, transfer or check
//	stock_kind      entry or exit
//	stock_reason    a reason accepted for the sibling Kind field
func RegisterValidators() error {
	var err error
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		if err = v.RegisterValidation("payment_method", validatePaymentMethod); err != nil {
			return
		}
		if err = v.RegisterValidation("stock_kind", validateStockKind); err != nil {
			return
		}
		err = v.RegisterValidation("stock_reason", validateStockReason)
	})
	return err
}

func validatePaymentMethod(fl validator.FieldLevel) bool {
	return sales.PaymentMethod(fl.Field().String()).IsValid()
}

func validateStockKind(fl validator.FieldLevel) bool {
	return inventory.Kind(fl.Field().String()).IsValid()
}

func validateStockReason(fl validator.FieldLevel) bool {
	parent := fl.Parent()
	if parent.Kind() == reflect.Pointer {
		parent = parent.Elem()
	}
	kind := parent.FieldByName("Kind")
	if !kind.IsValid() || kind.Kind() != reflect.String {
		return false
	}
	return inventory.ValidReason(inventory.Kind(kind.String()), inventory.Reason(fl.Field().String()))
}

// FieldErrors maps each failed field to the tag it failed on.
func FieldErrors(err error) map[string]string {
	ve, ok := err.(validator.ValidationErrors)
	if !ok {
		return nil
	}
	out := make(map[string]string, len(ve))
	for _, fe := range ve {
		out[fe.Field()] = fe.Tag()
	}
	return out
}
