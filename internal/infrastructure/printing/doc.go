// Package printing renders invoices to HTML with html/template and converts
// the HTML to PDF through a headless Chrome instance driven by chromedp.
//
// Example usage:
//
//	renderer, err := NewChromedpRenderer(&ChromedpConfig{NoSandbox: true})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer renderer.Close()
//
//	html, err := NewTemplateEngine().RenderInvoice(view)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	result, err := renderer.Render(ctx, &RenderRequest{HTML: html, PaperSize: PaperSizeA4})
package printing
