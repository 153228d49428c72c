package classroom

import (
	"math/rand"
	"time"
)

// OTP codes are uniform over [100000, 999999]; they are not unique across
// pending join requests.
const (
	codeMin = 100000
	codeMax = 999999
)

var codeFunc = generateCode // mockable

func init() {
	rand.Seed(time.Now().UnixNano())
}

func generateCode() int {
	return codeMin + rand.Intn(codeMax-codeMin+1)
}
