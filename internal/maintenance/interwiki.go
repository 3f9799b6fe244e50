package maintenance

import (
	"context"
	"fmt"

	"github.com/danielledeleo/addinterwiki/interwiki"
)

// InterwikiUpdate adds one interwiki link as a maintenance update.
type InterwikiUpdate struct {
	Upserter *interwiki.Upserter
	Request  interwiki.Request

	// Result holds the outcome after DoUpdate succeeds.
	Result *interwiki.Result
}

func (u *InterwikiUpdate) UpdateKey() string {
	return "AddInterwiki:" + u.Request.Prefix
}

func (u *InterwikiUpdate) SkippedMessage() string {
	return fmt.Sprintf("InterWiki prefix %s already added to interwiki table", u.Request.Prefix)
}

func (u *InterwikiUpdate) DoUpdate(ctx context.Context) (string, error) {
	result, err := u.Upserter.Upsert(ctx, u.Request)
	if err != nil {
		return "", err
	}
	u.Result = result
	return result.String(), nil
}
