package photos

import (
	"github.com/lehigh-university-libraries/brochurer/internal/models"
)

// Categories that make a photo eligible to anchor the cover page
const (
	CategoryExterior = "exterior"
	CategoryGarden   = "garden"
)

// SelectCover picks the cover photo and returns the remaining photos in
// their original order. The first exterior or garden photo wins, falling
// back to the first photo. An empty list yields a nil cover.
//
// The remainder excludes the cover by pointer identity, so content-equal
// duplicates of the cover are kept.
func SelectCover(list []*models.Photo) (*models.Photo, []*models.Photo) {
	if len(list) == 0 {
		return nil, []*models.Photo{}
	}

	cover := list[0]
	for _, p := range list {
		if p.Category == CategoryExterior || p.Category == CategoryGarden {
			cover = p
			break
		}
	}

	remainder := make([]*models.Photo, 0, len(list)-1)
	for _, p := range list {
		if p != cover {
			remainder = append(remainder, p)
		}
	}

	return cover, remainder
}
