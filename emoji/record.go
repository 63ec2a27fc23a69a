////////////////////////////////////////////////////////////////////////////////
// Copyright © 2024 TMoji Web contributors                                    //
//                                                                            //
// Use of this source code is governed by a license that can be found in the  //
// LICENSE file.                                                              //
////////////////////////////////////////////////////////////////////////////////

// Package emoji defines the records served by the TMoji proxy backend. The
// JSON field names match the backend wire format exactly; records are never
// mutated once decoded, a re-fetch produces a new record.
package emoji

// FileType identifies the media format of an emoji asset. It is a closed set;
// the renderer dispatches on it with an explicit switch.
type FileType string

const (
	// PNG is a static raster image.
	PNG FileType = "png"

	// TGS is a gzip-compressed Lottie vector animation.
	TGS FileType = "tgs"

	// WEBM is a video clip.
	WEBM FileType = "webm"

	// GIF is a legacy animated raster image.
	GIF FileType = "gif"
)

// PackType identifies the kind of sticker pack a record belongs to.
type PackType string

const (
	PackRegular     PackType = "regular"
	PackMask        PackType = "mask"
	PackCustomEmoji PackType = "custom_emoji"
)

// Record is the metadata for a single custom emoji asset. The ID is a
// provider-assigned numeric string and is treated as an opaque token.
type Record struct {
	ID              string   `json:"id"`
	ShortName       string   `json:"short_name"`
	Emoji           string   `json:"emoji,omitempty"`
	FileType        FileType `json:"file_type"`
	FileURL         string   `json:"file_url"`
	ThumbnailURL    string   `json:"thumbnail_url,omitempty"`
	Width           int      `json:"width"`
	Height          int      `json:"height"`
	IsAnimated      bool     `json:"is_animated"`
	IsVideo         bool     `json:"is_video"`
	SetName         string   `json:"set_name,omitempty"`
	NeedsRepainting bool     `json:"needs_repainting"`
}

// Pack is a named, ordered collection of emoji records. The sticker order is
// the display order and must be preserved.
type Pack struct {
	Name        string   `json:"name"`
	Title       string   `json:"title"`
	StickerType PackType `json:"sticker_type"`
	Stickers    []Record `json:"stickers"`
	Thumbnail   string   `json:"thumbnail,omitempty"`
}
