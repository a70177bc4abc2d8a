package scene

import (
	"fmt"

	"github.com/charmbracelet/log"
)

// SelectAll returns every catalogue index.
func SelectAll(ctx *Context) []int {
	ids := make([]int, len(ctx.Photos))
	for i := range ids {
		ids[i] = i
	}
	return ids
}

// SelectSameDay returns the photos captured on the calendar day of ctx.Now.
func SelectSameDay(ctx *Context) []int {
	year, month, day := ctx.Now.Date()
	var ids []int
	for i, p := range ctx.Photos {
		at, ok := p.CapturedAt()
		if !ok {
			continue
		}
		at = at.In(ctx.Now.Location())
		if y, m, d := at.Date(); y == year && m == month && d == day {
			ids = append(ids, i)
		}
	}
	return ids
}

func NewAllSlideshow(ctx *Context, cfg SlideshowConfig, logger *log.Logger) (*Slideshow, error) {
	return NewSlideshow(SelectAll(ctx), "All Photos", cfg, logger)
}

// NewDailySlideshow shows the photos taken on this day.
func NewDailySlideshow(ctx *Context, cfg SlideshowConfig, logger *log.Logger) (*Slideshow, error) {
	title := fmt.Sprintf("Photos from %s", ctx.Now.Format("January 2"))
	if ctx.Locale != nil {
		title = "Photos from " + ctx.Locale.FormatLong(ctx.Now)
	}
	return NewSlideshow(SelectSameDay(ctx), title, cfg, logger)
}
