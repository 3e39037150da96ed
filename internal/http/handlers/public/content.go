package public

import (
	"errors"
	"strconv"

	"github.com/numora-app/numora-api/internal/http/response"
	"github.com/numora-app/numora-api/internal/i18n"
	"github.com/numora-app/numora-api/internal/repository"
	"github.com/numora-app/numora-api/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	contentDefaultLimit = 20
	contentMaxLimit     = 100
)

// Videos 视频列表
func (h *Handler) Videos(c *gin.Context) {
	filter := parseContentFilter(c)
	locale := i18n.ResolveLocale(c)

	items, total, err := h.ContentService.ListVideos(locale, filter.Offset, filter.Limit)
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.SuccessWithPage(c, items, response.Pagination{
		Offset: filter.Offset,
		Limit:  filter.Limit,
		Count:  len(items),
		Total:  total,
	})
}

// Faqs FAQ 列表
func (h *Handler) Faqs(c *gin.Context) {
	filter := parseContentFilter(c)
	locale := i18n.ResolveLocale(c)

	items, total, err := h.ContentService.ListFaqs(locale, filter.Offset, filter.Limit)
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.SuccessWithPage(c, items, response.Pagination{
		Offset: filter.Offset,
		Limit:  filter.Limit,
		Count:  len(items),
		Total:  total,
	})
}

// FaqDetail 单条 FAQ
func (h *Handler) FaqDetail(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("faq_id"), 10, 64)
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	faq, err := h.ContentService.GetFaq(i18n.ResolveLocale(c), uint(id))
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondError(c, response.CodeNotFound, "error.faq_not_found", nil)
			return
		}
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.Success(c, gin.H{"faq": faq})
}

// Number 按出生日期返回命理数字
func (h *Handler) Number(c *gin.Context) {
	date := c.Query("date")
	if date == "" {
		respondError(c, response.CodeBadRequest, "error.invalid_date", nil)
		return
	}

	number, err := h.ContentService.NumberForDate(i18n.ResolveLocale(c), date)
	if err != nil {
		rules := []mappedHandlerError{
			{target: service.ErrInvalidDate, code: response.CodeBadRequest, key: "error.invalid_date"},
			{target: service.ErrNotFound, code: response.CodeNotFound, key: "error.number_not_found"},
		}
		respondWithMappedError(c, err, rules, response.CodeInternal, "error.internal")
		return
	}
	response.Success(c, gin.H{"number": number})
}

func parseContentFilter(c *gin.Context) repository.ContentListFilter {
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(contentDefaultLimit)))
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 {
		limit = contentDefaultLimit
	}
	if limit > contentMaxLimit {
		limit = contentMaxLimit
	}
	return repository.ContentListFilter{Offset: offset, Limit: limit}
}
