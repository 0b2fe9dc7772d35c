package generator

import (
	"fmt"
	"strings"

	"github.com/shouni/tryon-view-kit/pkg/domain"
)

// defaultInstructions はユーザー指示が空のときに差し込む文言です。
const defaultInstructions = "Natural and realistic style."

// tryOnPromptTemplate は全視点共通の構造プロンプトです。
// 1つ目の %s に視点の説明、2つ目の %s にユーザー指示が入ります。
const tryOnPromptTemplate = `You are an expert AI fashion photographer and image compositor.

Input Images:
1. Subject Image: A person.
2. Product Image: An item (clothing, accessory, or object).

Task: Generate a photorealistic image of the Subject wearing or using the Product.

CRITICAL REQUIREMENT - IDENTITY PRESERVATION:
- The person in the generated image MUST look exactly like the Subject in the uploaded image.
- Retain the Subject's facial features, hairstyle, body shape, and skin tone accurately.
- This is a virtual try-on task; identity consistency is the #1 priority.

VIEWPOINT SPECIFICATION:
- Generate this image from the following angle: %s

INTEGRATION DETAILS:
- If the Product is clothing, fit it naturally onto the Subject's body.
- If the Product is an object, have the Subject hold or interact with it naturally.
- Ensure lighting and shadows are consistent.
- Background: Clean, neutral, professional studio setting or contextually appropriate simple background.

User Custom Instructions: %s`

// viewpointDescriptions は視点ごとのカメラ構図の説明です。全視点を網羅していること。
var viewpointDescriptions = [domain.ViewAngleCount]string{
	domain.ViewFront: "Front View: The Subject is facing the camera directly. Full clear view of the face and product.",
	domain.ViewLeft:  "Left Side Profile: The Subject is turned to their right (showing their left side profile).",
	domain.ViewRight: "Right Side Profile: The Subject is turned to their left (showing their right side profile).",
	domain.ViewBack:  "Back View: The Subject is facing away from the camera. Show the back of the product/clothing.",
}

// ViewpointDescription は視点に対応する固定の説明文を返します。
func ViewpointDescription(angle domain.ViewAngle) string {
	if !angle.Valid() {
		return ""
	}
	return viewpointDescriptions[angle]
}

// BuildPrompt は指定視点のプロンプトを組み立てます。
// instructions は優先度の低い修飾として末尾に付与されます。
func BuildPrompt(angle domain.ViewAngle, instructions string) string {
	custom := strings.TrimSpace(instructions)
	if custom == "" {
		custom = defaultInstructions
	}
	return fmt.Sprintf(tryOnPromptTemplate, ViewpointDescription(angle), custom)
}

// BuildTasks は1リクエストから視点の固定順で4つの生成タスクを作ります。
func BuildTasks(req domain.GenerationRequest) []domain.GenerationTask {
	angles := domain.AllViewAngles()
	tasks := make([]domain.GenerationTask, 0, len(angles))
	for _, angle := range angles {
		tasks = append(tasks, domain.GenerationTask{
			Angle:       angle,
			Images:      []domain.ImageAsset{req.Person, req.Product},
			Prompt:      BuildPrompt(angle, req.Instructions),
			AspectRatio: req.AspectRatio,
			Seed:        req.Seed,
		})
	}
	return tasks
}
