package ubl

import (
	"fmt"
	"strings"

	"github.com/beevik/etree"
)

// Outline is a structural view of a UBL document read without decoding its content
type Outline struct {
	Root            string `json:"root"`
	Namespace       string `json:"namespace,omitempty"`
	UBLVersion      string `json:"ubl_version,omitempty"`
	CustomizationID string `json:"customization_id,omitempty"`
	Lines           int    `json:"lines"`
	Attachments     int    `json:"attachments"`
	Signed          bool   `json:"signed"`
}

func readTree(content []byte) (*etree.Element, error) {
	doc := etree.NewDocument()
	doc.ReadSettings.CharsetReader = charsetReader
	if err := doc.ReadFromBytes(content); err != nil {
		return nil, fmt.Errorf("failed to parse XML: %w", err)
	}
	root := doc.Root()
	if root == nil {
		return nil, fmt.Errorf("empty XML document")
	}
	return root, nil
}

// RootName returns the local name of the document element
func RootName(content []byte) (string, error) {
	root, err := readTree(content)
	if err != nil {
		return "", err
	}
	return root.Tag, nil
}

// Inspect reads the outline of a document
func Inspect(content []byte) (*Outline, error) {
	root, err := readTree(content)
	if err != nil {
		return nil, err
	}

	out := &Outline{
		Root:            root.Tag,
		Namespace:       root.NamespaceURI(),
		UBLVersion:      childText(root, "UBLVersionID"),
		CustomizationID: childText(root, "CustomizationID"),
		Signed:          findElementRecursive(root, "Signature") != nil,
	}
	for _, child := range root.ChildElements() {
		switch child.Tag {
		case "InvoiceLine", "CreditNoteLine":
			out.Lines++
		case "AdditionalDocumentReference":
			if findElementRecursive(child, "EmbeddedDocumentBinaryObject") != nil {
				out.Attachments++
			}
		}
	}
	return out, nil
}

func childText(elem *etree.Element, localName string) string {
	for _, child := range elem.ChildElements() {
		if child.Tag == localName {
			return strings.TrimSpace(child.Text())
		}
	}
	return ""
}

// findElementRecursive searches for an element by local name, depth first
func findElementRecursive(elem *etree.Element, localName string) *etree.Element {
	if elem.Tag == localName {
		return elem
	}
	for _, child := range elem.ChildElements() {
		if found := findElementRecursive(child, localName); found != nil {
			return found
		}
	}
	return nil
}
