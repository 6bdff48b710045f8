package subscriber

import (
	"crypto/subtle"
	"encoding/hex"
	"net/url"
	"strconv"
	"strings"

	"blogjobs/internal/pkg/errs"

	"golang.org/x/crypto/blake2b"
)

// ActionCancel is the action signed into unsubscribe links.
const ActionCancel = "cancel"

// UnsubscribeSigner signs (email, action, validate code, timestamp) with a
// shared secret so the subscribe endpoint can verify a link without a lookup.
type UnsubscribeSigner struct {
	key []byte
}

// NewUnsubscribeSigner keys BLAKE2b-256 with secret. Secrets longer than the
// BLAKE2b key limit are compressed to 32 bytes first.
func NewUnsubscribeSigner(secret string) (UnsubscribeSigner, error) {
	if secret == "" {
		return UnsubscribeSigner{}, errs.NewValueIsRequiredError("unsubscribe secret")
	}
	key := []byte(secret)
	if len(key) > blake2b.Size {
		sum := blake2b.Sum256(key)
		key = sum[:]
	}
	return UnsubscribeSigner{key: key}, nil
}

// Sign returns the hex MAC for one unsubscribe link.
func (s UnsubscribeSigner) Sign(email, action, validateCode string, timestamp int64) string {
	h, err := blake2b.New256(s.key)
	if err != nil {
		// key length is bounded in NewUnsubscribeSigner
		panic(err)
	}
	_, _ = h.Write([]byte(strings.Join([]string{email, action, validateCode, strconv.FormatInt(timestamp, 10)}, "\x00")))
	return hex.EncodeToString(h.Sum(nil))
}

// Verify checks hash against the given fields in constant time.
func (s UnsubscribeSigner) Verify(email, action, validateCode string, timestamp int64, hash string) bool {
	want := s.Sign(email, action, validateCode, timestamp)
	return subtle.ConstantTimeCompare([]byte(want), []byte(strings.ToLower(hash))) == 1
}

// CancelURL builds the unsubscribe link on the scheme and host of siteLink.
func (s UnsubscribeSigner) CancelURL(siteLink *url.URL, sub Subscriber, timestamp int64) string {
	q := url.Values{}
	q.Set("email", sub.Email())
	q.Set("act", ActionCancel)
	q.Set("validate", sub.ValidateCode())
	q.Set("timespan", strconv.FormatInt(timestamp, 10))
	q.Set("hash", s.Sign(sub.Email(), ActionCancel, sub.ValidateCode(), timestamp))

	u := url.URL{Scheme: siteLink.Scheme, Host: siteLink.Host, Path: "/subscribe", RawQuery: q.Encode()}
	return u.String()
}
