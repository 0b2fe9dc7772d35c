package domain

import "fmt"

// ViewAngle は生成する4つのカメラ視点のいずれかです。
type ViewAngle int

const (
	ViewFront ViewAngle = iota
	ViewLeft
	ViewRight
	ViewBack
)

// ViewAngleCount は視点の総数です。
const ViewAngleCount = 4

var viewAngleNames = [ViewAngleCount]string{
	ViewFront: "front",
	ViewLeft:  "left",
	ViewRight: "right",
	ViewBack:  "back",
}

// AllViewAngles は front, left, right, back の固定順で全視点を返します。
func AllViewAngles() []ViewAngle {
	return []ViewAngle{ViewFront, ViewLeft, ViewRight, ViewBack}
}

// Valid は定義済みの視点かどうかを返します。
func (a ViewAngle) Valid() bool {
	return a >= ViewFront && a <= ViewBack
}

func (a ViewAngle) String() string {
	if !a.Valid() {
		return fmt.Sprintf("ViewAngle(%d)", int(a))
	}
	return viewAngleNames[a]
}

// ParseViewAngle は "front" などの名前から ViewAngle を得ます。
func ParseViewAngle(s string) (ViewAngle, error) {
	for i, name := range viewAngleNames {
		if name == s {
			return ViewAngle(i), nil
		}
	}
	return 0, fmt.Errorf("unknown view angle %q", s)
}

// MarshalText は JSON のマップキーとして名前を使うためのものです。
func (a ViewAngle) MarshalText() ([]byte, error) {
	if !a.Valid() {
		return nil, fmt.Errorf("invalid view angle %d", int(a))
	}
	return []byte(a.String()), nil
}

func (a *ViewAngle) UnmarshalText(text []byte) error {
	v, err := ParseViewAngle(string(text))
	if err != nil {
		return err
	}
	*a = v
	return nil
}
