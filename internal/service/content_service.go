package service

import (
	"strings"
	"time"

	"github.com/numora-app/numora-api/internal/i18n"
	"github.com/numora-app/numora-api/internal/models"
	"github.com/numora-app/numora-api/internal/repository"
)

const numberDateLayout = "2006-01-02"

// ContentService 只读内容服务：视频、FAQ 与数字命理。
type ContentService struct {
	repo repository.ContentRepository
}

// NewContentService 创建内容服务
func NewContentService(repo repository.ContentRepository) *ContentService {
	return &ContentService{repo: repo}
}

// VideoView 本地化后的视频视图
type VideoView struct {
	ID          uint   `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
	PreviewURL  string `json:"preview_url"`
}

// FaqView 本地化后的 FAQ 视图
type FaqView struct {
	ID       uint   `json:"id"`
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// NumberView 本地化后的命理数字视图
type NumberView struct {
	Value       int    `json:"value"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// ListVideos 视频列表
func (s *ContentService) ListVideos(locale string, offset, limit int) ([]VideoView, int64, error) {
	videos, total, err := s.repo.ListVideos(repository.ContentListFilter{Offset: offset, Limit: limit})
	if err != nil {
		return nil, 0, err
	}
	views := make([]VideoView, 0, len(videos))
	for _, v := range videos {
		views = append(views, VideoView{
			ID:          v.ID,
			Title:       localize(locale, v.TitleEN, v.TitleIT),
			Description: localize(locale, v.DescriptionEN, v.DescriptionIT),
			URL:         v.URL,
			PreviewURL:  v.PreviewURL,
		})
	}
	return views, total, nil
}

// ListFaqs 常见问题列表
func (s *ContentService) ListFaqs(locale string, offset, limit int) ([]FaqView, int64, error) {
	faqs, total, err := s.repo.ListFaqs(repository.ContentListFilter{Offset: offset, Limit: limit})
	if err != nil {
		return nil, 0, err
	}
	views := make([]FaqView, 0, len(faqs))
	for _, f := range faqs {
		views = append(views, faqView(locale, &f))
	}
	return views, total, nil
}

// GetFaq 获取单条常见问题
func (s *ContentService) GetFaq(locale string, id uint) (*FaqView, error) {
	faq, err := s.repo.GetFaq(id)
	if err != nil {
		return nil, err
	}
	if faq == nil {
		return nil, ErrNotFound
	}
	view := faqView(locale, faq)
	return &view, nil
}

// NumberForDate 按日期返回命理数字：取日期中“日”的各位数字之和。
func (s *ContentService) NumberForDate(locale, date string) (*NumberView, error) {
	parsed, err := time.Parse(numberDateLayout, strings.TrimSpace(date))
	if err != nil {
		return nil, ErrInvalidDate
	}
	value := sumOfDigits(parsed.Day())
	number, err := s.repo.GetNumberByValue(value)
	if err != nil {
		return nil, err
	}
	if number == nil {
		return nil, ErrNotFound
	}
	return &NumberView{
		Value:       number.Value,
		Title:       localize(locale, number.TitleEN, number.TitleIT),
		Description: localize(locale, number.DescriptionEN, number.DescriptionIT),
	}, nil
}

func faqView(locale string, faq *models.Faq) FaqView {
	return FaqView{
		ID:       faq.ID,
		Question: localize(locale, faq.QuestionEN, faq.QuestionIT),
		Answer:   localize(locale, faq.AnswerEN, faq.AnswerIT),
	}
}

// localize 选取语言字段，意大利语缺失时回退英文。
func localize(locale, en, it string) string {
	if normalizeLocale(locale) == i18n.LocaleIT && strings.TrimSpace(it) != "" {
		return it
	}
	return en
}

func sumOfDigits(n int) int {
	sum := 0
	for n > 0 {
		sum += n % 10
		n /= 10
	}
	return sum
}
