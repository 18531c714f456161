package tools

// Static catalog: 80 tools across four categories, created once at
// process start and never mutated.

var categoryIcons = map[Category]string{
	CategoryPDF:        "file-text",
	CategoryImage:      "image",
	CategoryAudio:      "music",
	CategoryGovernment: "landmark",
}

// SupportedFormats lists the accepted input formats per category,
// shown on the tool detail endpoint.
var SupportedFormats = map[Category][]string{
	CategoryPDF:        {"pdf"},
	CategoryImage:      {"jpeg", "jpg", "png", "gif", "bmp", "tiff"},
	CategoryAudio:      {"mp3", "wav", "ogg", "flac", "m4a", "aac", "mp4", "mov", "avi", "mkv", "webm"},
	CategoryGovernment: {"pdf", "jpeg", "jpg", "png"},
}

// CategoryFeatures is the fixed feature blurb per category, shown on
// the tool detail endpoint.
var CategoryFeatures = map[Category][]string{
	CategoryPDF:        {"Batch processing", "No watermarks", "Original quality preserved"},
	CategoryImage:      {"Batch processing", "Quality control", "Format conversion"},
	CategoryAudio:      {"Fast conversion", "Quality presets", "Stream copy where possible"},
	CategoryGovernment: {"Instant results", "No data stored", "India-specific formats"},
}

func t(id int, name, slug string, c Category, desc string, popular bool) Tool {
	return Tool{
		ID:          id,
		Name:        name,
		Slug:        slug,
		Category:    c,
		Description: desc,
		Icon:        categoryIcons[c],
		Popular:     popular,
		IsActive:    true,
	}
}

var allTools = []Tool{
	// PDF tools
	t(1, "PDF Merge", "pdf-merge", CategoryPDF, "Combine multiple PDF files into one", true),
	t(2, "PDF Split", "pdf-split", CategoryPDF, "Split PDF into separate pages", true),
	t(3, "PDF Compress", "pdf-compress", CategoryPDF, "Reduce PDF file size", false),
	t(4, "PDF to Word", "pdf-to-word", CategoryPDF, "Convert PDF to Word document", true),
	t(5, "PDF to Excel", "pdf-to-excel", CategoryPDF, "Convert PDF to Excel spreadsheet", false),
	t(6, "PDF to PowerPoint", "pdf-to-powerpoint", CategoryPDF, "Convert PDF to PowerPoint", false),
	t(7, "PDF Password Protect", "pdf-password-protect", CategoryPDF, "Add password protection to PDF", false),
	t(8, "PDF Password Remove", "pdf-password-remove", CategoryPDF, "Remove password from PDF", false),
	t(9, "PDF Watermark", "pdf-watermark", CategoryPDF, "Add watermark to PDF pages", false),
	t(10, "PDF Page Delete", "pdf-page-delete", CategoryPDF, "Delete specific pages from PDF", false),
	t(11, "PDF Page Rotate", "pdf-page-rotate", CategoryPDF, "Rotate PDF pages", false),
	t(12, "PDF OCR", "pdf-ocr", CategoryPDF, "Extract text from scanned PDF", true),
	t(13, "PDF Form Fill", "pdf-form-fill", CategoryPDF, "Fill PDF forms electronically", false),
	t(14, "PDF Metadata Edit", "pdf-metadata-edit", CategoryPDF, "Edit PDF properties and metadata", false),
	t(15, "PDF Bookmark Add", "pdf-bookmark-add", CategoryPDF, "Add bookmarks to PDF", false),
	t(16, "PDF Page Numbers", "pdf-page-numbers", CategoryPDF, "Add page numbers to PDF", false),
	t(17, "PDF Background Remove", "pdf-background-remove", CategoryPDF, "Remove background from PDF", false),
	t(18, "PDF Signature Add", "pdf-signature-add", CategoryPDF, "Add digital signature to PDF", false),
	t(19, "PDF Header Footer", "pdf-header-footer", CategoryPDF, "Add header and footer to PDF", false),
	t(20, "PDF Black White", "pdf-black-white", CategoryPDF, "Convert PDF to black and white", false),

	// Image tools
	t(21, "Image Resize", "image-resize", CategoryImage, "Resize images to custom dimensions", true),
	t(22, "Image Compress", "image-compress", CategoryImage, "Reduce image file size", true),
	t(23, "Background Remove", "background-remove", CategoryImage, "Remove background from images", true),
	t(24, "Image Crop", "image-crop", CategoryImage, "Crop images to specific dimensions", true),
	t(25, "Image Format Convert", "image-format-convert", CategoryImage, "Convert between image formats", true),
	t(26, "Image Enhance", "image-enhance", CategoryImage, "AI-powered image enhancement", false),
	t(27, "Image Upscale", "image-upscale", CategoryImage, "Increase image resolution with AI", false),
	t(28, "Image Filters", "image-filters", CategoryImage, "Apply artistic filters to images", false),
	t(29, "Image Watermark", "image-watermark", CategoryImage, "Add watermark to images", false),
	t(30, "QR Code Generator", "qr-code-generator", CategoryImage, "Generate QR codes", true),
	t(31, "Barcode Generator", "barcode-generator", CategoryImage, "Generate various barcodes", false),
	t(32, "Image Collage", "image-collage", CategoryImage, "Create photo collages", false),
	t(33, "Meme Generator", "meme-generator", CategoryImage, "Create memes with text", false),
	t(34, "Image Border", "image-border", CategoryImage, "Add borders to images", false),
	t(35, "Image Rotate", "image-rotate", CategoryImage, "Rotate images by any angle", false),
	t(36, "Image Flip", "image-flip", CategoryImage, "Flip images horizontally/vertically", false),
	t(37, "Image Grayscale", "image-grayscale", CategoryImage, "Convert images to grayscale", false),
	t(38, "Image Sepia", "image-sepia", CategoryImage, "Apply sepia effect to images", false),
	t(39, "Image Blur", "image-blur", CategoryImage, "Apply blur effect to images", false),
	t(40, "Image Sharpen", "image-sharpen", CategoryImage, "Sharpen blurry images", false),

	// Audio/video tools
	t(41, "Audio Convert", "audio-convert", CategoryAudio, "Convert between audio formats", true),
	t(42, "Video Convert", "video-convert", CategoryAudio, "Convert between video formats", true),
	t(43, "Audio Trim", "audio-trim", CategoryAudio, "Cut and trim audio files", true),
	t(44, "Video Trim", "video-trim", CategoryAudio, "Cut and trim video files", true),
	t(45, "Audio Merge", "audio-merge", CategoryAudio, "Combine multiple audio files", false),
	t(46, "Video Merge", "video-merge", CategoryAudio, "Combine multiple video files", false),
	t(47, "Audio Extract", "audio-extract", CategoryAudio, "Extract audio from video", true),
	t(48, "Video Compress", "video-compress", CategoryAudio, "Reduce video file size", true),
	t(49, "Audio Compress", "audio-compress", CategoryAudio, "Reduce audio file size", false),
	t(50, "Volume Boost", "volume-boost", CategoryAudio, "Increase audio volume", false),
	t(51, "Audio Normalize", "audio-normalize", CategoryAudio, "Normalize audio levels", false),
	t(52, "Video Speed Change", "video-speed-change", CategoryAudio, "Change video playback speed", false),
	t(53, "Audio Speed Change", "audio-speed-change", CategoryAudio, "Change audio playback speed", false),
	t(54, "Video Stabilize", "video-stabilize", CategoryAudio, "Stabilize shaky videos", false),
	t(55, "Noise Removal", "noise-removal", CategoryAudio, "Remove background noise", false),
	t(56, "Video Reverse", "video-reverse", CategoryAudio, "Reverse video playback", false),
	t(57, "Audio Reverse", "audio-reverse", CategoryAudio, "Reverse audio playback", false),
	t(58, "Video Resize", "video-resize", CategoryAudio, "Change video dimensions", false),
	t(59, "Video Rotate", "video-rotate", CategoryAudio, "Rotate video orientation", false),
	t(60, "GIF Maker", "gif-maker", CategoryAudio, "Create GIF from video", true),

	// Government tools
	t(61, "PAN Validation", "pan-validation", CategoryGovernment, "Validate PAN card numbers", true),
	t(62, "Aadhaar Mask", "aadhaar-mask", CategoryGovernment, "Mask Aadhaar card numbers", true),
	t(63, "GST Calculator", "gst-calculator", CategoryGovernment, "Calculate GST amounts", true),
	t(64, "IFSC Code Finder", "ifsc-code-finder", CategoryGovernment, "Find bank IFSC codes", true),
	t(65, "Passport Photo", "passport-photo", CategoryGovernment, "Create passport size photos", true),
	t(66, "Income Tax Calculator", "income-tax-calculator", CategoryGovernment, "Calculate income tax", false),
	t(67, "EPF Calculator", "epf-calculator", CategoryGovernment, "Calculate EPF amounts", false),
	t(68, "PPF Calculator", "ppf-calculator", CategoryGovernment, "Calculate PPF returns", false),
	t(69, "EMI Calculator", "emi-calculator", CategoryGovernment, "Calculate loan EMIs", false),
	t(70, "SIP Calculator", "sip-calculator", CategoryGovernment, "Calculate SIP returns", false),
	t(71, "Digital Signature", "digital-signature", CategoryGovernment, "Create digital signatures", false),
	t(72, "Voter ID Verification", "voter-id-verification", CategoryGovernment, "Verify voter ID details", false),
	t(73, "Driving License Check", "driving-license-check", CategoryGovernment, "Check driving license status", false),
	t(74, "Vehicle Registration", "vehicle-registration", CategoryGovernment, "Check vehicle details", false),
	t(75, "Property Tax Calculator", "property-tax-calculator", CategoryGovernment, "Calculate property tax", false),
	t(76, "Stamp Duty Calculator", "stamp-duty-calculator", CategoryGovernment, "Calculate stamp duty", false),
	t(77, "TDS Calculator", "tds-calculator", CategoryGovernment, "Calculate TDS amounts", false),
	t(78, "Provident Fund", "provident-fund", CategoryGovernment, "PF account management tools", false),
	t(79, "Gratuity Calculator", "gratuity-calculator", CategoryGovernment, "Calculate gratuity amount", false),
	t(80, "HRA Calculator", "hra-calculator", CategoryGovernment, "Calculate HRA exemption", false),
}

// StaticCatalog implements Catalog over the hardcoded tool list.
type StaticCatalog struct {
	tools  []Tool
	bySlug map[string]Tool
}

func NewStaticCatalog() *StaticCatalog {
	c := &StaticCatalog{
		tools:  allTools,
		bySlug: make(map[string]Tool, len(allTools)),
	}
	for _, tl := range allTools {
		c.bySlug[tl.Slug] = tl
	}
	return c
}

func (c *StaticCatalog) All() []Tool {
	out := make([]Tool, len(c.tools))
	copy(out, c.tools)
	return out
}

func (c *StaticCatalog) BySlug(slug string) (Tool, bool) {
	tl, ok := c.bySlug[slug]
	return tl, ok
}

func (c *StaticCatalog) ByCategory(cat Category) []Tool {
	var out []Tool
	for _, tl := range c.tools {
		if tl.Category == cat {
			out = append(out, tl)
		}
	}
	return out
}
