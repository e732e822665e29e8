package generate

import "github.com/samber/lo"

// Supported image dimensions.
const (
	Size256  = "256x256"
	Size512  = "512x512"
	Size1024 = "1024x1024"

	// DefaultSize is used when the caller omits size.
	DefaultSize = Size512
)

// Sizes returns the advertised image dimensions in ascending order.
func Sizes() []string {
	return []string{Size256, Size512, Size1024}
}

// IsSupportedSize reports whether size is one of the advertised dimensions.
func IsSupportedSize(size string) bool {
	return lo.Contains(Sizes(), size)
}

// Request is a validated generate_image payload.
type Request struct {
	// Prompt is the text description of the image.
	Prompt string `json:"prompt"`

	// Size is the requested dimensions, passed to the service as given.
	Size string `json:"size"`
}

// ParseArgs narrows an untyped arguments value to a Request.
//
// The value must be a JSON object with a string "prompt". If "size" is present
// it must be a string and is kept as-is, even when empty; an explicit null is
// rejected. DefaultSize applies only when the key is absent. The returned bool
// is false for anything else, in which case the Request is the zero value.
func ParseArgs(v any) (Request, bool) {
	args, ok := v.(map[string]any)
	if !ok || args == nil {
		return Request{}, false
	}

	prompt, ok := args["prompt"].(string)
	if !ok {
		return Request{}, false
	}

	req := Request{Prompt: prompt, Size: DefaultSize}
	if raw, present := args["size"]; present {
		size, ok := raw.(string)
		if !ok {
			return Request{}, false
		}
		req.Size = size
	}

	return req, true
}
