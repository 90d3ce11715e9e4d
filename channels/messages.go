package channels

import (
	"flockr/apierr"
	"flockr/db"
	"flockr/types"
)

const PageSize = 50

type Page struct {
	Messages []types.MessageView `json:"messages"`
	Start    int                 `json:"start"`
	End      int                 `json:"end"`
}

// Messages returns up to PageSize messages, newest first, skipping the
// start most recent ones. End is -1 once the oldest message is included.
func (s *Service) Messages(token string, channelID, start int) (Page, error) {
	var page Page
	err := s.store.View(func(tx *db.Tx) error {
		u, err := s.auth.Authorize(tx, token)
		if err != nil {
			return err
		}
		ch, err := lookup(tx, channelID, u.ID)
		if err != nil {
			return err
		}

		total := len(ch.Order)
		if start < 0 || start > total {
			return apierr.Input("Start is greater than the number of messages")
		}

		page = Page{Messages: make([]types.MessageView, 0, PageSize), Start: start, End: start + PageSize}
		if page.End >= total {
			page.End = -1
		}
		for i := total - 1 - start; i >= 0 && len(page.Messages) < PageSize; i-- {
			if m := ch.Messages[ch.Order[i]]; m != nil {
				page.Messages = append(page.Messages, m.View(u.ID))
			}
		}
		return nil
	})
	return page, err
}
