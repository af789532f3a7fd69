package render

// The three fixed layouts. Each is a self-contained HTML page sized for A4
// printing; optional sections are omitted entirely when the field was skipped.

const classicHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<style>
  @page { size: A4; margin: 18mm; }
  body { font-family: Georgia, 'Times New Roman', serif; color: #1a1a1a; margin: 0; }
  header { text-align: center; border-bottom: 2px solid #1a1a1a; padding-bottom: 10px; }
  h1 { margin: 0; font-size: 26px; letter-spacing: 1px; text-transform: uppercase; }
  .role { margin: 4px 0 0; font-size: 14px; color: #444; }
  .contact { margin: 6px 0 0; font-size: 12px; color: #555; }
  section { margin-top: 16px; }
  h2 { font-size: 13px; text-transform: uppercase; letter-spacing: 2px; border-bottom: 1px solid #bbb; padding-bottom: 3px; }
  p, li { font-size: 12.5px; line-height: 1.5; }
  .entry { margin-bottom: 10px; }
  .entry .title { font-weight: bold; font-size: 13px; }
  .entry .meta { font-size: 11.5px; color: #666; }
</style>
</head>
<body>
<header>
  <h1>{{.Nome}}</h1>
  {{if .Cargo}}<p class="role">{{.Cargo}}</p>{{end}}
  {{if .Contact}}<p class="contact">{{range $i, $c := .Contact}}{{if $i}} &bull; {{end}}{{$c}}{{end}}</p>{{end}}
</header>
{{if .Resumo}}<section><h2>{{.L.Resumo}}</h2><p>{{.Resumo}}</p></section>{{end}}
{{if .Experiencias}}<section><h2>{{.L.Experiencias}}</h2>
{{range .Experiencias}}<div class="entry">
  <div class="title">{{.Cargo}}</div>
  <div class="meta">{{.Empresa}}{{if .Periodo}} &mdash; {{.Periodo}}{{end}}</div>
  {{if .Descricao}}<p>{{.Descricao}}</p>{{end}}
</div>{{end}}
</section>{{end}}
{{if .Formacao}}<section><h2>{{.L.Formacao}}</h2><p>{{.Formacao}}</p></section>{{end}}
{{if .Habilidades}}<section><h2>{{.L.Habilidades}}</h2><ul>{{range .Habilidades}}<li>{{.}}</li>{{end}}</ul></section>{{end}}
{{if .Cursos}}<section><h2>{{.L.Cursos}}</h2><ul>{{range .Cursos}}<li>{{.}}</li>{{end}}</ul></section>{{end}}
</body>
</html>
`

const sidebarHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<style>
  @page { size: A4; margin: 0; }
  body { font-family: 'Helvetica Neue', Arial, sans-serif; color: #222; margin: 0; display: flex; }
  aside { width: 32%; min-height: 100vh; background: #2c3e50; color: #ecf0f1; padding: 28px 20px; box-sizing: border-box; }
  main { width: 68%; padding: 28px 26px; box-sizing: border-box; }
  h1 { font-size: 24px; margin: 0 0 2px; }
  .role { font-size: 13px; color: #7f8c8d; margin: 0 0 18px; }
  aside h2 { font-size: 12px; text-transform: uppercase; letter-spacing: 2px; border-bottom: 1px solid #46627f; padding-bottom: 4px; }
  main h2 { font-size: 13px; text-transform: uppercase; letter-spacing: 2px; color: #2c3e50; border-bottom: 2px solid #2c3e50; padding-bottom: 3px; }
  p, li { font-size: 12px; line-height: 1.5; }
  aside ul { padding-left: 16px; }
  .entry { margin-bottom: 12px; }
  .entry .title { font-weight: bold; font-size: 13px; }
  .entry .meta { font-size: 11px; color: #7f8c8d; }
</style>
</head>
<body>
<aside>
  {{if .Contact}}<h2>Contato</h2><ul>{{range .Contact}}<li>{{.}}</li>{{end}}</ul>{{end}}
  {{if .Habilidades}}<h2>{{.L.Habilidades}}</h2><ul>{{range .Habilidades}}<li>{{.}}</li>{{end}}</ul>{{end}}
  {{if .Cursos}}<h2>{{.L.Cursos}}</h2><ul>{{range .Cursos}}<li>{{.}}</li>{{end}}</ul>{{end}}
</aside>
<main>
  <h1>{{.Nome}}</h1>
  {{if .Cargo}}<p class="role">{{.Cargo}}</p>{{end}}
  {{if .Resumo}}<h2>{{.L.Resumo}}</h2><p>{{.Resumo}}</p>{{end}}
  {{if .Experiencias}}<h2>{{.L.Experiencias}}</h2>
  {{range .Experiencias}}<div class="entry">
    <div class="title">{{.Cargo}}</div>
    <div class="meta">{{.Empresa}}{{if .Periodo}} &mdash; {{.Periodo}}{{end}}</div>
    {{if .Descricao}}<p>{{.Descricao}}</p>{{end}}
  </div>{{end}}{{end}}
  {{if .Formacao}}<h2>{{.L.Formacao}}</h2><p>{{.Formacao}}</p>{{end}}
</main>
</body>
</html>
`

const creativeHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<style>
  @page { size: A4; margin: 0; }
  body { font-family: 'Segoe UI', Verdana, sans-serif; color: #2d2d2d; margin: 0; }
  .banner { background: linear-gradient(135deg, #6a11cb, #2575fc); color: #fff; padding: 34px 30px; }
  .banner h1 { margin: 0; font-size: 28px; }
  .banner .role { margin: 6px 0 0; font-size: 14px; opacity: 0.9; }
  .banner .contact { margin: 10px 0 0; font-size: 12px; opacity: 0.85; }
  .content { padding: 24px 30px; }
  h2 { font-size: 14px; color: #6a11cb; margin-top: 20px; }
  h2::after { content: ""; display: block; width: 42px; border-bottom: 3px solid #2575fc; margin-top: 3px; }
  p, li { font-size: 12.5px; line-height: 1.55; }
  .entry { margin-bottom: 12px; }
  .entry .title { font-weight: 600; font-size: 13.5px; }
  .entry .meta { font-size: 11.5px; color: #777; }
  .chips li { display: inline-block; background: #f0e9ff; border-radius: 12px; padding: 3px 10px; margin: 2px; list-style: none; }
  .chips { padding: 0; }
</style>
</head>
<body>
<div class="banner">
  <h1>{{.Nome}}</h1>
  {{if .Cargo}}<p class="role">{{.Cargo}}</p>{{end}}
  {{if .Contact}}<p class="contact">{{range $i, $c := .Contact}}{{if $i}} | {{end}}{{$c}}{{end}}</p>{{end}}
</div>
<div class="content">
  {{if .Resumo}}<h2>{{.L.Resumo}}</h2><p>{{.Resumo}}</p>{{end}}
  {{if .Experiencias}}<h2>{{.L.Experiencias}}</h2>
  {{range .Experiencias}}<div class="entry">
    <div class="title">{{.Cargo}}</div>
    <div class="meta">{{.Empresa}}{{if .Periodo}} &mdash; {{.Periodo}}{{end}}</div>
    {{if .Descricao}}<p>{{.Descricao}}</p>{{end}}
  </div>{{end}}{{end}}
  {{if .Formacao}}<h2>{{.L.Formacao}}</h2><p>{{.Formacao}}</p>{{end}}
  {{if .Habilidades}}<h2>{{.L.Habilidades}}</h2><ul class="chips">{{range .Habilidades}}<li>{{.}}</li>{{end}}</ul>{{end}}
  {{if .Cursos}}<h2>{{.L.Cursos}}</h2><ul>{{range .Cursos}}<li>{{.}}</li>{{end}}</ul>{{end}}
</div>
</body>
</html>
`
