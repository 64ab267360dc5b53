package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"fintrack/internal/repository"
	"fintrack/internal/service"
)

func (h *Handler) dashboard(c *gin.Context) {
	overview, err := h.transactions.Overview(c.Request.Context(), actorID(c))
	if err != nil {
		h.respondError(c, err)
		return
	}

	latest := overview.Transactions
	if len(latest) > dashboardLimit {
		latest = latest[:dashboardLimit]
	}
	h.render(c, http.StatusOK, "index", gin.H{
		"User":         overview.User,
		"Transactions": latest,
		"Monthly":      overview.Monthly,
		"Overspending": overview.Monthly.Overspending(),
	})
}

func (h *Handler) wallet(c *gin.Context) {
	overview, err := h.transactions.Overview(c.Request.Context(), actorID(c))
	if err != nil {
		h.respondError(c, err)
		return
	}

	month := h.now().Month()
	h.render(c, http.StatusOK, "wallet", gin.H{
		"User":         overview.User,
		"Transactions": overview.Transactions,
		"Monthly":      overview.Monthly,
		"Overspending": overview.Monthly.Overspending(),
		"MonthName":    month.String(),
		"MonthIncome":  overview.Monthly.Income[month-1],
		"MonthExpense": overview.Monthly.Expense[month-1],
	})
}

// latestData feeds the dashboard chart. Slot i of each series is month i+1.
func (h *Handler) latestData(c *gin.Context) {
	overview, err := h.transactions.Overview(c.Request.Context(), actorID(c))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) || errors.Is(err, service.ErrForbidden) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}
		h.log(c).WithError(err).Error("chart data")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"balance":      overview.User.Balance,
		"income_data":  overview.Monthly.Income,
		"expense_data": overview.Monthly.Expense,
		"income_sum":   overview.Monthly.IncomeSum(),
		"expense_sum":  overview.Monthly.ExpenseSum(),
	})
}

func (h *Handler) newTransactionPage(c *gin.Context) {
	h.render(c, http.StatusOK, "transaction_form", transactionFormData(transactionForm{}, "", ""))
}

func (h *Handler) createTransaction(c *gin.Context) {
	var form transactionForm
	if err := c.ShouldBind(&form); err != nil {
		h.render(c, http.StatusBadRequest, "transaction_form", transactionFormData(form, "", bindingMessage(err)))
		return
	}

	_, err := h.transactions.Create(c.Request.Context(), actorID(c), form.input())
	switch {
	case err == nil:
		h.flash(c, flashSuccess, "Transaction Added Successfully")
		c.Redirect(http.StatusFound, "/wallet")
	case service.IsValidation(err):
		h.render(c, http.StatusBadRequest, "transaction_form", transactionFormData(form, "", validationMessage(err)))
	case errors.Is(err, service.ErrForbidden), errors.Is(err, repository.ErrNotFound):
		h.respondError(c, err)
	default:
		h.log(c).WithError(err).Error("create transaction")
		h.render(c, http.StatusInternalServerError, "transaction_form",
			transactionFormData(form, "", "Error!!... There was a problem adding your transaction."))
	}
}

func (h *Handler) transactionPage(c *gin.Context) {
	txn, err := h.transactions.Get(c.Request.Context(), actorID(c), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.render(c, http.StatusOK, "transaction_form", transactionFormData(transactionFormFrom(txn), txn.ID, ""))
}

func (h *Handler) updateTransaction(c *gin.Context) {
	id := c.Param("id")
	var form transactionForm
	if err := c.ShouldBind(&form); err != nil {
		h.render(c, http.StatusBadRequest, "transaction_form", transactionFormData(form, id, bindingMessage(err)))
		return
	}

	_, err := h.transactions.Update(c.Request.Context(), actorID(c), id, form.input())
	switch {
	case err == nil:
		h.flash(c, flashSuccess, "Transaction Updated Successfully")
		c.Redirect(http.StatusFound, "/wallet")
	case service.IsValidation(err):
		h.render(c, http.StatusBadRequest, "transaction_form", transactionFormData(form, id, validationMessage(err)))
	case errors.Is(err, service.ErrForbidden), errors.Is(err, repository.ErrNotFound):
		h.respondError(c, err)
	default:
		h.log(c).WithError(err).Error("update transaction")
		h.render(c, http.StatusInternalServerError, "transaction_form",
			transactionFormData(form, id, "Error!!... There was a problem updating your record."))
	}
}

func (h *Handler) deleteTransaction(c *gin.Context) {
	err := h.transactions.Delete(c.Request.Context(), actorID(c), c.Param("id"))
	switch {
	case err == nil:
		h.flash(c, flashSuccess, "Transaction Deleted Successfully")
		c.Redirect(http.StatusFound, "/wallet")
	case errors.Is(err, service.ErrForbidden), errors.Is(err, repository.ErrNotFound):
		h.respondError(c, err)
	default:
		h.log(c).WithError(err).Error("delete transaction")
		h.flash(c, flashDanger, "Error!!... There was a problem deleting your transaction.")
		c.Redirect(http.StatusFound, "/wallet")
	}
}
