package generator

import (
	"github.com/shouni/tryon-view-kit/pkg/domain"
	"github.com/shouni/tryon-view-kit/pkg/imgutil"
)

// outputNamePrefix は生成画像のダウンロード名の接頭辞です。
const outputNamePrefix = "style-fusion-"

// OutputName は視点と MIME から "style-fusion-front.png" のような名前を作ります。
func OutputName(angle domain.ViewAngle, mimeType string) string {
	return outputNamePrefix + angle.String() + imgutil.ExtensionForMIME(mimeType)
}
