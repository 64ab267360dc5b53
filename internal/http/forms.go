package http

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"fintrack/internal/domain"
	"fintrack/internal/service"
)

type registerForm struct {
	FirstName string `form:"first_name" binding:"required,max=200"`
	LastName  string `form:"last_name" binding:"required,max=200"`
	Username  string `form:"username" binding:"required,max=20"`
	Email     string `form:"email" binding:"required,max=180"`
	Phone     string `form:"phone" binding:"required"`
	Password  string `form:"password" binding:"required,eqfield=Password1"`
	Password1 string `form:"password1" binding:"required"`
}

type loginForm struct {
	Username string `form:"username" binding:"required"`
	Password string `form:"password" binding:"required"`
}

type settingsForm struct {
	FirstName string `form:"first_name" binding:"required,max=200"`
	LastName  string `form:"last_name" binding:"required,max=200"`
	Email     string `form:"email" binding:"required,max=180"`
	Phone     string `form:"phone" binding:"required"`
}

// transactionForm mirrors the transaction fields. An amount of zero is
// rejected like an empty one.
type transactionForm struct {
	Amount      int64  `form:"amount" binding:"required,min=0"`
	Type        string `form:"trans_type" binding:"required"`
	Category    string `form:"category" binding:"required"`
	Frequency   string `form:"transaction_frequency" binding:"required"`
	Duration    int    `form:"duration" binding:"min=0,max=12"`
	Description string `form:"description" binding:"max=25"`
}

func (f transactionForm) input() service.TransactionInput {
	return service.TransactionInput{
		Amount:      f.Amount,
		Type:        domain.TransactionType(f.Type),
		Category:    f.Category,
		Frequency:   domain.Frequency(f.Frequency),
		Duration:    f.Duration,
		Description: f.Description,
	}
}

func transactionFormFrom(t *domain.Transaction) transactionForm {
	return transactionForm{
		Amount:      t.Amount,
		Type:        string(t.Type),
		Category:    t.Category,
		Frequency:   string(t.Frequency),
		Duration:    t.Duration,
		Description: t.Description,
	}
}

type choice struct {
	Value any
	Label string
}

var typeChoices = []choice{
	{Value: string(domain.TransactionIncome), Label: "Income"},
	{Value: string(domain.TransactionExpense), Label: "Expenses"},
}

var durationChoices = func() []choice {
	out := []choice{{Value: 0, Label: "Once"}, {Value: 1, Label: "A Month"}}
	words := []string{"Two", "Three", "Four", "Five", "Six", "Seven", "Eight", "Nine"}
	for i, w := range words {
		out = append(out, choice{Value: i + 2, Label: w + " Months"})
	}
	for n := 10; n <= domain.MaxDuration; n++ {
		out = append(out, choice{Value: n, Label: strconv.Itoa(n) + " Months"})
	}
	return out
}()

// transactionFormData is the template data shared by the create and edit pages.
func transactionFormData(form transactionForm, transactionID, message string) gin.H {
	return gin.H{
		"Form":          form,
		"TransactionID": transactionID,
		"Error":         message,
		"Types":         typeChoices,
		"Categories":    domain.Categories,
		"Frequencies":   domain.Frequencies,
		"Durations":     durationChoices,
	}
}

var fieldLabels = map[string]string{
	"FirstName":   "First Name",
	"LastName":    "Last Name",
	"Username":    "Username",
	"Email":       "Email",
	"Phone":       "Phone",
	"Password":    "Password",
	"Password1":   "Re-enter Password",
	"Amount":      "Amount",
	"Type":        "Transaction Type",
	"Category":    "Category",
	"Frequency":   "Frequency Of This Transaction",
	"Duration":    "Duration Of This Transaction",
	"Description": "Additional Details",
}

// bindingMessage turns a form binding failure into text for the page.
func bindingMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		var numErr *strconv.NumError
		if errors.As(err, &numErr) {
			return "Please enter whole numbers only."
		}
		return "The form could not be read."
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		label := fieldLabels[fe.Field()]
		if label == "" {
			label = fe.Field()
		}
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, label+" is required.")
		case "eqfield":
			msgs = append(msgs, "Password Must Match")
		case "min":
			msgs = append(msgs, fmt.Sprintf("%s must be at least %s.", label, fe.Param()))
		case "max":
			if fe.Kind() == reflect.String {
				msgs = append(msgs, fmt.Sprintf("%s must be at most %s characters.", label, fe.Param()))
			} else {
				msgs = append(msgs, fmt.Sprintf("%s must be at most %s.", label, fe.Param()))
			}
		default:
			msgs = append(msgs, label+" is invalid.")
		}
	}
	return strings.Join(msgs, " ")
}

// validationMessage renders a service ValidationError for the page.
func validationMessage(err error) string {
	var ve *service.ValidationError
	if !errors.As(err, &ve) {
		return err.Error()
	}
	return ve.Error()
}

// openUpload returns the uploaded picture, or nil when none was sent.
// The caller closes the returned file.
func openUpload(c *gin.Context, field string) (*service.Upload, multipart.File, error) {
	header, err := c.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return nil, nil, nil
		}
		return nil, nil, err
	}
	if header.Filename == "" || header.Size == 0 {
		return nil, nil, nil
	}
	f, err := header.Open()
	if err != nil {
		return nil, nil, fmt.Errorf("open upload: %w", err)
	}
	return &service.Upload{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Body:        f,
	}, f, nil
}
