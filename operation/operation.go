package operation

// Operation is one decoded content stream instruction. The set of
// implementations is closed; each type corresponds to exactly one operator.
//
// Every variant is a plain value type and is comparable with ==.
type Operation interface {
	// Operator returns the content stream operator the value was decoded from.
	Operator() string
	operation()
}

// Text objects

type BeginTextObject struct{}
type EndTextObject struct{}

func (BeginTextObject) Operator() string { return "BT" }
func (BeginTextObject) operation()       {}
func (EndTextObject) Operator() string   { return "ET" }
func (EndTextObject) operation()         {}

// Text state

// SetTextFontAndSize selects a font resource by name. Name holds the bytes
// of the resource name unchanged.
type SetTextFontAndSize struct {
	Name string
	Size float64
}

type SetCharacterSpacing struct{ Spacing float64 }
type SetWordSpacing struct{ Spacing float64 }
type SetHorizontalTextScaling struct{ Scale float64 }
type SetTextLeading struct{ Leading float64 }
type SetTextRise struct{ Rise float64 }
type SetTextRenderingMode struct{ Mode int }

func (SetTextFontAndSize) Operator() string       { return "Tf" }
func (SetTextFontAndSize) operation()             {}
func (SetCharacterSpacing) Operator() string      { return "Tc" }
func (SetCharacterSpacing) operation()            {}
func (SetWordSpacing) Operator() string           { return "Tw" }
func (SetWordSpacing) operation()                 {}
func (SetHorizontalTextScaling) Operator() string { return "Tz" }
func (SetHorizontalTextScaling) operation()       {}
func (SetTextLeading) Operator() string           { return "TL" }
func (SetTextLeading) operation()                 {}
func (SetTextRise) Operator() string              { return "Ts" }
func (SetTextRise) operation()                    {}
func (SetTextRenderingMode) Operator() string     { return "Tr" }
func (SetTextRenderingMode) operation()           {}

// Text positioning

type MoveTextPosition struct{ TX, TY float64 }

// MoveTextPositionAndSetLeading is TD; it also sets the leading to -TY.
type MoveTextPositionAndSetLeading struct{ TX, TY float64 }

type SetTextMatrixAndTextLineMatrix struct{ A, B, C, D, E, F float64 }
type MoveToStartOfNextLine struct{}

func (MoveTextPosition) Operator() string               { return "Td" }
func (MoveTextPosition) operation()                     {}
func (MoveTextPositionAndSetLeading) Operator() string  { return "TD" }
func (MoveTextPositionAndSetLeading) operation()        {}
func (SetTextMatrixAndTextLineMatrix) Operator() string { return "Tm" }
func (SetTextMatrixAndTextLineMatrix) operation()       {}
func (MoveToStartOfNextLine) Operator() string          { return "T*" }
func (MoveToStartOfNextLine) operation()                {}

// Text showing. Bodies are the operand bytes, which must be valid UTF-8.

type ShowText struct{ Body string }

// ShowTextAllowingIndividualGlyphPositioning is TJ. Body concatenates the
// string elements of the array; positioning adjustments are dropped.
type ShowTextAllowingIndividualGlyphPositioning struct{ Body string }

type MoveToNextLineAndShowText struct{ Body string }

type SetSpacingMoveToNextLineAndShowText struct {
	WordSpacing      float64
	CharacterSpacing float64
	Body             string
}

func (ShowText) Operator() string                                   { return "Tj" }
func (ShowText) operation()                                         {}
func (ShowTextAllowingIndividualGlyphPositioning) Operator() string { return "TJ" }
func (ShowTextAllowingIndividualGlyphPositioning) operation()       {}
func (MoveToNextLineAndShowText) Operator() string                  { return "'" }
func (MoveToNextLineAndShowText) operation()                        {}
func (SetSpacingMoveToNextLineAndShowText) Operator() string        { return `"` }
func (SetSpacingMoveToNextLineAndShowText) operation()              {}

// Type 3 glyphs

type SetGlyphWidth struct{ WX, WY float64 }
type SetGlyphWidthAndBoundingBox struct{ WX, WY, LLX, LLY, URX, URY float64 }

func (SetGlyphWidth) Operator() string               { return "d0" }
func (SetGlyphWidth) operation()                     {}
func (SetGlyphWidthAndBoundingBox) Operator() string { return "d1" }
func (SetGlyphWidthAndBoundingBox) operation()       {}

// Graphics state

type SaveGraphicsState struct{}
type RestoreGraphicsState struct{}
type ModifyCurrentTransformationMatrix struct{ A, B, C, D, E, F float64 }
type SetLineWidth struct{ Width float64 }
type SetLineCap struct{ Style int }
type SetLineJoin struct{ Style int }
type SetMiterLimit struct{ Limit float64 }

// SetLineDashPattern is d. Dashes holds the dash array as numbers
// separated by single spaces, so that the value stays comparable.
type SetLineDashPattern struct {
	Dashes string
	Phase  float64
}

type SetColorRenderingIntent struct{ Intent string }
type SetFlatnessTolerance struct{ Flatness float64 }
type SetGraphicsStateParameters struct{ Name string }

func (SaveGraphicsState) Operator() string                 { return "q" }
func (SaveGraphicsState) operation()                       {}
func (RestoreGraphicsState) Operator() string              { return "Q" }
func (RestoreGraphicsState) operation()                    {}
func (ModifyCurrentTransformationMatrix) Operator() string { return "cm" }
func (ModifyCurrentTransformationMatrix) operation()       {}
func (SetLineWidth) Operator() string                      { return "w" }
func (SetLineWidth) operation()                            {}
func (SetLineCap) Operator() string                        { return "J" }
func (SetLineCap) operation()                              {}
func (SetLineJoin) Operator() string                       { return "j" }
func (SetLineJoin) operation()                             {}
func (SetMiterLimit) Operator() string                     { return "M" }
func (SetMiterLimit) operation()                           {}
func (SetLineDashPattern) Operator() string                { return "d" }
func (SetLineDashPattern) operation()                      {}
func (SetColorRenderingIntent) Operator() string           { return "ri" }
func (SetColorRenderingIntent) operation()                 {}
func (SetFlatnessTolerance) Operator() string              { return "i" }
func (SetFlatnessTolerance) operation()                    {}
func (SetGraphicsStateParameters) Operator() string        { return "gs" }
func (SetGraphicsStateParameters) operation()              {}

// Path construction

type BeginNewSubpath struct{ X, Y float64 }
type AppendStraightLineSegment struct{ X, Y float64 }
type AppendCurvedSegment struct{ X1, Y1, X2, Y2, X3, Y3 float64 }
type AppendCurvedSegmentInitialPointReplicated struct{ X2, Y2, X3, Y3 float64 }
type AppendCurvedSegmentFinalPointReplicated struct{ X1, Y1, X3, Y3 float64 }
type CloseSubpath struct{}
type AppendRectangleToPath struct{ X, Y, Width, Height float64 }

func (BeginNewSubpath) Operator() string                           { return "m" }
func (BeginNewSubpath) operation()                                 {}
func (AppendStraightLineSegment) Operator() string                 { return "l" }
func (AppendStraightLineSegment) operation()                       {}
func (AppendCurvedSegment) Operator() string                       { return "c" }
func (AppendCurvedSegment) operation()                             {}
func (AppendCurvedSegmentInitialPointReplicated) Operator() string { return "v" }
func (AppendCurvedSegmentInitialPointReplicated) operation()       {}
func (AppendCurvedSegmentFinalPointReplicated) Operator() string   { return "y" }
func (AppendCurvedSegmentFinalPointReplicated) operation()         {}
func (CloseSubpath) Operator() string                              { return "h" }
func (CloseSubpath) operation()                                    {}
func (AppendRectangleToPath) Operator() string                     { return "re" }
func (AppendRectangleToPath) operation()                           {}

// Path painting

type StrokePath struct{}
type CloseAndStrokePath struct{}
type FillPathUsingNonzeroWindingNumberRule struct{}

// FillPathUsingNonzeroWindingNumberRuleObsolete is F, an old spelling of f.
type FillPathUsingNonzeroWindingNumberRuleObsolete struct{}

type FillPathUsingEvenOddRule struct{}
type FillAndStrokePathUsingNonzeroWindingNumberRule struct{}
type FillAndStrokePathUsingEvenOddRule struct{}
type CloseFillAndStrokePathUsingNonzeroWindingNumberRule struct{}
type CloseFillAndStrokePathUsingEvenOddRule struct{}
type EndPathWithoutFillingOrStroking struct{}

func (StrokePath) Operator() string                                          { return "S" }
func (StrokePath) operation()                                                {}
func (CloseAndStrokePath) Operator() string                                  { return "s" }
func (CloseAndStrokePath) operation()                                        {}
func (FillPathUsingNonzeroWindingNumberRule) Operator() string               { return "f" }
func (FillPathUsingNonzeroWindingNumberRule) operation()                     {}
func (FillPathUsingNonzeroWindingNumberRuleObsolete) Operator() string       { return "F" }
func (FillPathUsingNonzeroWindingNumberRuleObsolete) operation()             {}
func (FillPathUsingEvenOddRule) Operator() string                            { return "f*" }
func (FillPathUsingEvenOddRule) operation()                                  {}
func (FillAndStrokePathUsingNonzeroWindingNumberRule) Operator() string      { return "B" }
func (FillAndStrokePathUsingNonzeroWindingNumberRule) operation()            {}
func (FillAndStrokePathUsingEvenOddRule) Operator() string                   { return "B*" }
func (FillAndStrokePathUsingEvenOddRule) operation()                         {}
func (CloseFillAndStrokePathUsingNonzeroWindingNumberRule) Operator() string { return "b" }
func (CloseFillAndStrokePathUsingNonzeroWindingNumberRule) operation()       {}
func (CloseFillAndStrokePathUsingEvenOddRule) Operator() string              { return "b*" }
func (CloseFillAndStrokePathUsingEvenOddRule) operation()                    {}
func (EndPathWithoutFillingOrStroking) Operator() string                     { return "n" }
func (EndPathWithoutFillingOrStroking) operation()                           {}

// Clipping

type SetClippingPathUsingNonzeroWindingNumberRule struct{}
type SetClippingPathUsingEvenOddRule struct{}

func (SetClippingPathUsingNonzeroWindingNumberRule) Operator() string { return "W" }
func (SetClippingPathUsingNonzeroWindingNumberRule) operation()       {}
func (SetClippingPathUsingEvenOddRule) Operator() string              { return "W*" }
func (SetClippingPathUsingEvenOddRule) operation()                    {}

// Color. Color space and color component operands are not interpreted;
// those operators decode to markers.

type SetColorSpaceForStrokingOperations struct{}
type SetColorSpaceForNonstrokingOperations struct{}
type SetColorForStrokingOperations struct{}
type SetColorForStrokingOperationsExtended struct{}
type SetColorForNonstrokingOperationsBasic struct{}
type SetColorForNonstrokingOperations struct{}
type SetGrayForStrokingOperations struct{ Gray float64 }
type SetGrayForNonstrokingOperations struct{ Gray float64 }
type SetRGBColorForStrokingOperations struct{ R, G, B float64 }
type SetRGBColorForNonstrokingOperations struct{ R, G, B float64 }
type SetCMYKColorForStrokingOperations struct{ C, M, Y, K float64 }
type SetCMYKColorForNonstrokingOperations struct{ C, M, Y, K float64 }

func (SetColorSpaceForStrokingOperations) Operator() string    { return "CS" }
func (SetColorSpaceForStrokingOperations) operation()          {}
func (SetColorSpaceForNonstrokingOperations) Operator() string { return "cs" }
func (SetColorSpaceForNonstrokingOperations) operation()       {}
func (SetColorForStrokingOperations) Operator() string         { return "SC" }
func (SetColorForStrokingOperations) operation()               {}
func (SetColorForStrokingOperationsExtended) Operator() string { return "SCN" }
func (SetColorForStrokingOperationsExtended) operation()       {}
func (SetColorForNonstrokingOperationsBasic) Operator() string { return "sc" }
func (SetColorForNonstrokingOperationsBasic) operation()       {}
func (SetColorForNonstrokingOperations) Operator() string      { return "scn" }
func (SetColorForNonstrokingOperations) operation()            {}
func (SetGrayForStrokingOperations) Operator() string          { return "G" }
func (SetGrayForStrokingOperations) operation()                {}
func (SetGrayForNonstrokingOperations) Operator() string       { return "g" }
func (SetGrayForNonstrokingOperations) operation()             {}
func (SetRGBColorForStrokingOperations) Operator() string      { return "RG" }
func (SetRGBColorForStrokingOperations) operation()            {}
func (SetRGBColorForNonstrokingOperations) Operator() string   { return "rg" }
func (SetRGBColorForNonstrokingOperations) operation()         {}
func (SetCMYKColorForStrokingOperations) Operator() string     { return "K" }
func (SetCMYKColorForStrokingOperations) operation()           {}
func (SetCMYKColorForNonstrokingOperations) Operator() string  { return "k" }
func (SetCMYKColorForNonstrokingOperations) operation()        {}

// External objects, shading and inline images

type PaintXObject struct{ Name string }
type PaintShading struct{ Name string }

// BeginInlineImage stands for a whole BI ... ID ... EI sequence.
type BeginInlineImage struct{}

func (PaintXObject) Operator() string     { return "Do" }
func (PaintXObject) operation()           {}
func (PaintShading) Operator() string     { return "sh" }
func (PaintShading) operation()           {}
func (BeginInlineImage) Operator() string { return "BI" }
func (BeginInlineImage) operation()       {}

// Marked content

type BeginMarkedContentSequence struct{ Tag string }
type BeginMarkedContentSequenceWithPropertyList struct{}
type EndMarkedContentSequence struct{}
type DesignateMarkedContentPoint struct{}
type DesignateMarkedContentPointWithPropertyList struct{}

func (BeginMarkedContentSequence) Operator() string                  { return "BMC" }
func (BeginMarkedContentSequence) operation()                        {}
func (BeginMarkedContentSequenceWithPropertyList) Operator() string  { return "BDC" }
func (BeginMarkedContentSequenceWithPropertyList) operation()        {}
func (EndMarkedContentSequence) Operator() string                    { return "EMC" }
func (EndMarkedContentSequence) operation()                          {}
func (DesignateMarkedContentPoint) Operator() string                 { return "MP" }
func (DesignateMarkedContentPoint) operation()                       {}
func (DesignateMarkedContentPointWithPropertyList) Operator() string { return "DP" }
func (DesignateMarkedContentPointWithPropertyList) operation()       {}

// Compatibility sections

type BeginCompatibilitySection struct{}
type EndCompatibilitySection struct{}

func (BeginCompatibilitySection) Operator() string { return "BX" }
func (BeginCompatibilitySection) operation()       {}
func (EndCompatibilitySection) Operator() string   { return "EX" }
func (EndCompatibilitySection) operation()         {}
