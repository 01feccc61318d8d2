package mcpserver

// PreviewLayoutURI is the resource URI of PreviewLayout.
const PreviewLayoutURI = "gistlens://preview-layout"

// PreviewLayout describes how a gist must be laid out to render as a live
// preview. LLM consumers should read it before authoring preview gists.
const PreviewLayout = `# gistlens Preview Layout

A gist renders as a live preview when it follows these rules.

## Files

- **Markup (required):** at least one ` + "`.html`" + ` or ` + "`.htm`" + ` file. ` + "`index.html`" + ` is
  used when present, otherwise the first markup file in gist order.
- **Stylesheets:** every ` + "`.css`" + ` file is injected in gist order, each in its own
  ` + "`<style>`" + ` block labelled with its filename.
- **Scripts:** every ` + "`.js`" + ` file is injected in gist order, each in its own
  ` + "`<script>`" + ` block after the body content.
- Other files are shown by the viewer but ignored by the preview.

Markup without an ` + "`<html>`" + ` element is wrapped in a generated document. A full
document gets styles before ` + "`</head>`" + ` and scripts before ` + "`</body>`" + `.

## Images

Gists hold text only, so images travel as base64 sidecar files:

- The sidecar name is the asset path with ` + "`/`" + ` replaced by ` + "`_`" + `, plus
  ` + "`.base64.txt`" + `: ` + "`images/logo.png`" + ` is stored as ` + "`images_logo.png.base64.txt`" + `.
- Content is the raw base64 payload or a complete ` + "`data:`" + ` URI.
- Asset file names must not contain ` + "`_`" + `.
- Reference images by their asset path. ` + "`images/logo.png`" + ` may also be referenced as
  ` + "`logo.png`" + `.
- Recognised references: ` + "`src=\"...\"`" + ` and ` + "`url(...)`" + ` in markup and CSS;
  ` + "`.src = \"...\"`" + `, ` + "`[\"src\"] = \"...\"`" + ` and ` + "`url(...)`" + ` in scripts.
- Use the ` + "`make_image_sidecar`" + ` tool to produce sidecars.

## Sandbox

Previews run in an opaque origin: scripts, forms, modals and popups work, but the
page cannot read cookies, storage or the host page.
`
