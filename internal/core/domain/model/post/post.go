package post

import (
	"errors"
	"strings"
	"time"

	"blogjobs/internal/pkg/errs"
)

// minVisitWindow is the smallest elapsed time used for the average view count.
const minVisitWindow = time.Hour

var ErrPostIsNotConstructed = errors.New("Post must be created via NewPost or RestorePost")

// Post is the aggregate root for a published article.
type Post struct {
	id           int64
	title        string
	author       string
	content      string
	status       Status
	postDate     time.Time
	modifyDate   time.Time
	totalViews   int64
	averageViews float64

	isConstructed bool
}

// NewPost creates a draft post.
func NewPost(id int64, title, author, content string) (*Post, error) {
	p := &Post{
		content:       content,
		author:        author,
		status:        Draft,
		isConstructed: true,
	}
	if err := errors.Join(p.setID(id), p.setTitle(title)); err != nil {
		return nil, err
	}
	return p, nil
}

// RestorePost rebuilds a post from storage.
func RestorePost(
	id int64,
	title, author, content string,
	status Status,
	postDate, modifyDate time.Time,
	totalViews int64,
	averageViews float64,
) (*Post, error) {
	if err := errors.Join(validateID(id), status.Validate()); err != nil {
		return nil, err
	}
	return &Post{
		id:            id,
		title:         title,
		author:        author,
		content:       content,
		status:        status,
		postDate:      postDate,
		modifyDate:    modifyDate,
		totalViews:    totalViews,
		averageViews:  averageViews,
		isConstructed: true,
	}, nil
}

func (p *Post) Validate() error {
	if p == nil || !p.isConstructed {
		return ErrPostIsNotConstructed
	}
	return nil
}

func (p *Post) ID() int64 { return p.id }
func (p *Post) Title() string { return p.title }
func (p *Post) Author() string { return p.author }
func (p *Post) Content() string { return p.content }
func (p *Post) Status() Status { return p.status }
func (p *Post) PostDate() time.Time { return p.postDate }
func (p *Post) ModifyDate() time.Time { return p.modifyDate }
func (p *Post) TotalViews() int64 { return p.totalViews }
func (p *Post) AverageViews() float64 { return p.averageViews }
func (p *Post) IsPublished() bool { return p.status == Published }

// Publish moves the post to Published and stamps both dates with now.
func (p *Post) Publish(now time.Time) error {
	next, err := p.status.Publish()
	if err != nil {
		return err
	}
	p.status = next
	p.postDate = now
	p.modifyDate = now
	return nil
}

// RecordVisit increments the view counter and recomputes views per day.
// Elapsed time below minVisitWindow is clamped to it.
func (p *Post) RecordVisit(now time.Time) {
	p.totalViews++

	elapsed := now.Sub(p.postDate)
	if elapsed < minVisitWindow {
		elapsed = minVisitWindow
	}
	days := elapsed.Hours() / 24
	p.averageViews = float64(p.totalViews) / days
}

// Summary returns the first n runes of the content with markup stripped.
func (p *Post) Summary(n int) string {
	var b strings.Builder
	inTag := false
	for _, r := range p.content {
		switch {
		case r == '<':
			inTag = true
		case r == '>':
			inTag = false
		case !inTag:
			b.WriteRune(r)
		}
	}
	runes := []rune(strings.Join(strings.Fields(b.String()), " "))
	if len(runes) <= n {
		return string(runes)
	}
	return string(runes[:n]) + "..."
}

func (p *Post) setID(id int64) error {
	if err := validateID(id); err != nil {
		return err
	}
	p.id = id
	return nil
}

func (p *Post) setTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return errs.NewValueIsRequiredError("title")
	}
	p.title = title
	return nil
}

func validateID(id int64) error {
	if id <= 0 {
		return errs.NewValueIsOutOfRangeError("post id", id, 1, "max int64")
	}
	return nil
}
