package listing

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/andybrandt/lisesca/internal/domain/entity"
)

func newDoc(html string) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("解析HTML失败: %w", err)
	}
	return doc, nil
}

func text(doc *goquery.Document, selector string) string {
	return strings.TrimSpace(doc.Find(selector).First().Text())
}

// parseItemIDs 从条目容器HTML中按序提取条目ID
func parseItemIDs(html, shellSelector string) ([]string, error) {
	doc, err := newDoc(html)
	if err != nil {
		return nil, err
	}
	var ids []string
	doc.Find(shellSelector).Each(func(_ int, s *goquery.Selection) {
		if id, ok := s.Attr("data-item-id"); ok && id != "" {
			ids = append(ids, id)
		}
	})
	return ids, nil
}

func parseProfileCard(id, html string) (*entity.Card, error) {
	doc, err := newDoc(html)
	if err != nil {
		return nil, err
	}
	card := &entity.ProfileCard{
		ProfileID: id,
		Name:      text(doc, ".name"),
		Headline:  text(doc, ".headline"),
		Location:  text(doc, ".location"),
		Degree:    text(doc, ".degree"),
	}
	if card.Name == "" {
		return nil, fmt.Errorf("卡片缺少姓名字段, id: %s", id)
	}
	return &entity.Card{Mode: entity.ModeProfiles, Profile: card}, nil
}

func parseJobCard(id, html string) (*entity.Card, error) {
	doc, err := newDoc(html)
	if err != nil {
		return nil, err
	}
	card := &entity.JobCard{
		JobID:     id,
		Title:     text(doc, ".title"),
		Company:   text(doc, ".company"),
		Location:  text(doc, ".location"),
		Salary:    text(doc, ".salary"),
		PostedAgo: text(doc, ".posted"),
	}
	if card.Title == "" {
		return nil, fmt.Errorf("卡片缺少职位名字段, id: %s", id)
	}
	return &entity.Card{Mode: entity.ModeJobs, Job: card}, nil
}

// cardLinkHref 提取卡片内详情链接的href
func cardLinkHref(html, linkSelector string) (string, error) {
	doc, err := newDoc(html)
	if err != nil {
		return "", err
	}
	href, ok := doc.Find(linkSelector).First().Attr("href")
	if !ok {
		return "", nil
	}
	return href, nil
}

// parseProfileDetail 解析人脉详情面板
func parseProfileDetail(id, html string) (*entity.Record, error) {
	doc, err := newDoc(html)
	if err != nil {
		return nil, err
	}
	rec := &entity.ProfileRecord{
		ProfileID:    id,
		Name:         text(doc, ".detail-name"),
		Headline:     text(doc, ".detail-headline"),
		Location:     text(doc, ".detail-location"),
		CurrentTitle: text(doc, ".current-title"),
		Company:      text(doc, ".current-company"),
		About:        text(doc, ".about"),
	}
	doc.Find(".skills li").Each(func(_ int, s *goquery.Selection) {
		if skill := strings.TrimSpace(s.Text()); skill != "" {
			rec.Skills = append(rec.Skills, skill)
		}
	})
	if href, ok := doc.Find("a.detail-profile-link").First().Attr("href"); ok {
		rec.ProfileURL = href
	}
	if rec.Name == "" {
		// 详情面板没有渲染出来,视为不可提取
		return nil, nil
	}
	return &entity.Record{Mode: entity.ModeProfiles, Profile: rec}, nil
}

// parseJobDetail 解析职位详情页,卡片字段作为兜底
func parseJobDetail(card *entity.JobCard, jobURL, html string) (*entity.Record, error) {
	doc, err := newDoc(html)
	if err != nil {
		return nil, err
	}
	rec := &entity.JobRecord{
		JobID:       card.JobID,
		Title:       text(doc, ".job-title"),
		Company:     text(doc, ".company-name"),
		Location:    text(doc, ".job-location"),
		Salary:      text(doc, ".salary"),
		Seniority:   text(doc, ".seniority"),
		Description: text(doc, ".description"),
		JobURL:      jobURL,
		PostedAgo:   card.PostedAgo,
	}
	if rec.Title == "" {
		rec.Title = card.Title
	}
	if rec.Company == "" {
		rec.Company = card.Company
	}
	if rec.Location == "" {
		rec.Location = card.Location
	}
	if rec.Salary == "" {
		rec.Salary = card.Salary
	}
	if rec.Title == "" {
		return nil, nil
	}
	return &entity.Record{Mode: entity.ModeJobs, Job: rec}, nil
}
