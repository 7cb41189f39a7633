package cmd

import (
	"fmt"

	"github.com/Laisky/errors/v2"

	"github.com/Laisky/shamir-recovery/crypto/threshold/shamir"
	"github.com/Laisky/shamir-recovery/json"
)

type outputFormat string

const (
	formatText outputFormat = "text"
	formatJSON outputFormat = "json"
)

func parseOutputFormat(v string) (outputFormat, error) {
	switch f := outputFormat(v); f {
	case formatText, formatJSON:
		return f, nil
	default:
		return "", errors.Errorf("unknown format %q", v)
	}
}

const failureLine = "Failed to recover secret or identify wrong share."

type jsonShare struct {
	Index int64  `json:"index"`
	Value string `json:"value"`
}

type jsonResult struct {
	Secret     string     `json:"secret,omitempty"`
	WrongShare *jsonShare `json:"wrong_share,omitempty"`
	Error      string     `json:"error,omitempty"`
}

// render recovery result, nil rec means the search failed
func render(format outputFormat, rec *shamir.Recovery) (string, error) {
	switch format {
	case formatText:
		if rec == nil {
			return failureLine + "\n", nil
		}

		return fmt.Sprintf("Secret: %s\nWrong Share: %s\n",
			rec.Secret.String(), rec.WrongShare.String()), nil
	case formatJSON:
		var result jsonResult
		if rec == nil {
			result.Error = shamir.ErrNotRecovered.Error()
		} else {
			result.Secret = rec.Secret.String()
			result.WrongShare = &jsonShare{
				Index: rec.WrongShare.Index,
				Value: rec.WrongShare.Value.String(),
			}
		}

		out, err := json.MarshalToString(result)
		if err != nil {
			return "", errors.Wrap(err, "marshal result")
		}

		return out + "\n", nil
	default:
		return "", errors.Errorf("unknown format %q", format)
	}
}
