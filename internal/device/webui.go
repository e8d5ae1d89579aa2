package device

const webCSS = `*{box-sizing:border-box;margin:0;padding:0}
body{font-family:-apple-system,BlinkMacSystemFont,'Segoe UI',Roboto,sans-serif;background:#f5f5f5;color:#333;line-height:1.6}

/* Header */
.hdr{background:linear-gradient(135deg,#0f766e 0%,#134e4a 100%);color:#fff;padding:14px 20px;display:flex;align-items:center;justify-content:space-between;position:sticky;top:0;z-index:100}
.hdr h1{font-size:18px;font-weight:600}
.hdr-right{font-size:13px;opacity:.9}

/* Tab bar */
.tabs{display:flex;border-bottom:2px solid #e5e7eb;background:#fff;padding:0 16px}
.tab{padding:12px 20px;cursor:pointer;font-size:14px;font-weight:500;color:#666;border-bottom:2px solid transparent;margin-bottom:-2px;transition:all .2s}
.tab:hover{color:#333}
.tab.active{color:#0f766e;border-bottom-color:#0f766e}

/* Content */
.content{max-width:960px;margin:0 auto;padding:20px}
.page{display:none}
.page.active{display:block}
.card{background:#fff;border-radius:8px;padding:20px;margin-bottom:16px;box-shadow:0 1px 3px rgba(0,0,0,.1)}
.card h2{font-size:16px;margin-bottom:12px;padding-bottom:8px;border-bottom:1px solid #eee}

/* Buttons */
.btn{display:inline-flex;align-items:center;padding:8px 16px;border-radius:6px;border:none;cursor:pointer;font-size:14px;font-weight:500;transition:all .2s}
.btn-primary{background:#0f766e;color:#fff}.btn-primary:hover{background:#115e59}
.btn-secondary{background:#e5e7eb;color:#374151}.btn-secondary:hover{background:#d1d5db}
.btn-danger{background:#fff;color:#ef4444;border:1px solid #ef4444}.btn-danger:hover{background:#fef2f2}
.btn-row{display:flex;gap:8px;flex-wrap:wrap;margin-top:12px}

/* Forms */
input[type=text]{width:100%;padding:8px 12px;border:1px solid #ddd;border-radius:6px;font-size:14px}
input[type=text]:focus,textarea:focus{outline:none;border-color:#0f766e;box-shadow:0 0 0 3px rgba(15,118,110,.15)}
textarea{width:100%;min-height:380px;padding:12px;border:1px solid #ddd;border-radius:6px;font-family:'SF Mono','Cascadia Code','Courier New',monospace;font-size:13px;tab-size:4}

/* Console */
#console{background:#1a1a2e;color:#a0aec0;border-radius:8px;padding:16px;font-family:'SF Mono','Cascadia Code','Courier New',monospace;font-size:13px;height:420px;overflow-y:auto;white-space:pre-wrap;word-break:break-all}
.cmd-row{display:flex;gap:8px;margin-top:12px}
.cmd-row input{font-family:'SF Mono','Cascadia Code','Courier New',monospace}

/* Files */
.file-row{display:flex;justify-content:space-between;padding:10px 12px;border-radius:6px;cursor:pointer;font-size:14px}
.file-row:hover{background:#f3f4f6}
.file-row.selected{background:#ccfbf1}
.file-size{color:#666;font-size:12px}
.empty{text-align:center;color:#888;padding:24px}

/* Status banner */
.status{display:none;padding:10px 16px;border-radius:6px;margin-bottom:16px;font-size:14px}
.status.show{display:block}
.status-success{background:#dcfce7;color:#166534}
.status-warning{background:#fef9c3;color:#854d0e}
.status-error{background:#fee2e2;color:#991b1b}
`

const webUI = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>picoide</title>
<link rel="stylesheet" href="/styles.css">
</head>
<body>
<div class="hdr"><h1>picoide</h1><div class="hdr-right">File editor &middot; Console &middot; Files</div></div>
<div class="tabs">
 <div class="tab active" id="tab-editor" onclick="showTab('editor')">File Editor</div>
 <div class="tab" id="tab-console" onclick="showTab('console')">Console Monitor</div>
 <div class="tab" id="tab-files" onclick="showTab('files')">File Browser</div>
</div>
<div class="content">
 <div class="status" id="status"></div>

 <div class="page active" id="page-editor">
  <div class="card">
   <h2>File Editor</h2>
   <input type="text" id="filename" placeholder="code.py" autocomplete="off">
   <div class="btn-row">
    <button class="btn btn-primary" onclick="loadFile()">Load</button>
    <button class="btn btn-primary" onclick="saveFile()">Save</button>
    <button class="btn btn-secondary" onclick="clearEditor()">Clear Editor</button>
   </div>
   <div style="margin-top:12px"><textarea id="editor" spellcheck="false"></textarea></div>
  </div>
 </div>

 <div class="page" id="page-console">
  <div class="card">
   <h2>Console Monitor</h2>
   <div id="console">Console output will appear here...</div>
   <div class="cmd-row">
    <input type="text" id="command" placeholder="help" autocomplete="off" onkeydown="if(event.key==='Enter')sendCommand()">
    <button class="btn btn-primary" onclick="sendCommand()">Send</button>
   </div>
  </div>
 </div>

 <div class="page" id="page-files">
  <div class="card">
   <h2>File Browser</h2>
   <div id="file-list"><div class="empty">Loading...</div></div>
   <div class="btn-row">
    <button class="btn btn-secondary" onclick="listFiles()">Refresh</button>
    <button class="btn btn-primary" onclick="openSelected()">Open in Editor</button>
    <button class="btn btn-secondary" onclick="createFile()">New File</button>
    <button class="btn btn-danger" onclick="deleteSelected()">Delete</button>
   </div>
  </div>
 </div>
</div>

<script>
var POLL_INTERVAL = 500;
var COMMAND_ECHO_DELAY = 100;
var STATUS_HIDE_DELAY = 3000;

// Session state lives in one object instead of loose globals.
var session = {
 selectedFile: null,
 statusTimer: null,
 poller: {
  timer: null,
  lastLength: 0,
  start: function() {
   this.stop();
   var self = this;
   this.timer = setInterval(function() { self.poll(); }, POLL_INTERVAL);
   this.poll();
  },
  stop: function() {
   if (this.timer !== null) {
    clearInterval(this.timer);
    this.timer = null;
   }
  },
  poll: function() {
   var self = this;
   fetch('/get_console').then(function(r) {
    if (!r.ok) throw new Error('HTTP ' + r.status);
    return r.json();
   }).then(function(entries) {
    if (entries.length !== self.lastLength) {
     var el = document.getElementById('console');
     el.textContent = entries.map(function(e) { return e.message; }).join('');
     el.scrollTop = el.scrollHeight;
    }
    self.lastLength = entries.length;
   }).catch(function(err) {
    showStatus('Error fetching console: ' + err.message, 'error');
   });
  }
 }
};

function showStatus(msg, kind) {
 var el = document.getElementById('status');
 el.textContent = msg;
 el.className = 'status show status-' + kind;
 if (session.statusTimer !== null) {
  clearTimeout(session.statusTimer);
  session.statusTimer = null;
 }
 if (kind !== 'error') {
  session.statusTimer = setTimeout(function() {
   el.className = 'status';
   session.statusTimer = null;
  }, STATUS_HIDE_DELAY);
 }
}

function showTab(name) {
 var names = ['editor', 'console', 'files'];
 for (var i = 0; i < names.length; i++) {
  document.getElementById('tab-' + names[i]).classList.toggle('active', names[i] === name);
  document.getElementById('page-' + names[i]).classList.toggle('active', names[i] === name);
 }
 if (name === 'console') session.poller.start(); else session.poller.stop();
 if (name === 'files') listFiles();
}

function postJSON(url, body) {
 return fetch(url, {method:'POST', headers:{'Content-Type':'application/json'}, body:JSON.stringify(body)});
}

function filename() {
 var name = document.getElementById('filename').value.trim();
 if (!name) showStatus('Please enter a filename', 'warning');
 return name;
}

function saveFile() {
 var name = filename();
 if (!name) return;
 postJSON('/save_file', {filename:name, content:document.getElementById('editor').value}).then(function(r) {
  return r.text().then(function(text) {
   if (!r.ok) throw new Error(text || ('HTTP ' + r.status));
   showStatus(text, 'success');
  });
 }).catch(function(err) { showStatus('Error saving file: ' + err.message, 'error'); });
}

function loadFile() {
 var name = filename();
 if (!name) return;
 postJSON('/load_file', {filename:name}).then(function(r) {
  if (!r.ok) throw new Error('File not found: ' + name);
  return r.json();
 }).then(function(data) {
  document.getElementById('editor').value = data.content;
  showStatus('Loaded ' + name, 'success');
 }).catch(function(err) { showStatus(err.message, 'error'); });
}

function clearEditor() {
 document.getElementById('filename').value = '';
 document.getElementById('editor').value = '';
 session.selectedFile = null;
}

function sendCommand() {
 var input = document.getElementById('command');
 var cmd = input.value.trim();
 if (!cmd) { showStatus('Please enter a command', 'warning'); return; }
 input.value = '';
 postJSON('/send_command', {command:cmd}).catch(function(err) {
  showStatus('Error sending command: ' + err.message, 'error');
 });
 setTimeout(function() { session.poller.poll(); }, COMMAND_ECHO_DELAY);
}

function esc(s) {
 var d = document.createElement('div');
 d.textContent = s;
 return d.innerHTML;
}

function listFiles() {
 fetch('/list_files').then(function(r) {
  if (!r.ok) throw new Error('HTTP ' + r.status);
  return r.json();
 }).then(function(files) {
  var list = document.getElementById('file-list');
  if (files.length === 0) {
   list.innerHTML = '<div class="empty">No files</div>';
   return;
  }
  list.innerHTML = files.map(function(f) {
   var cls = f.name === session.selectedFile ? 'file-row selected' : 'file-row';
   return '<div class="' + cls + '" data-name="' + esc(f.name) + '" onclick="selectFile(this.dataset.name)">' +
    '<span>' + esc(f.name) + '</span><span class="file-size">' + f.size + ' bytes</span></div>';
  }).join('');
 }).catch(function(err) { showStatus('Error listing files: ' + err.message, 'error'); });
}

function selectFile(name) {
 session.selectedFile = name;
 var rows = document.querySelectorAll('.file-row');
 for (var i = 0; i < rows.length; i++) rows[i].classList.toggle('selected', rows[i].dataset.name === name);
}

function openSelected() {
 if (!session.selectedFile) { showStatus('Select a file first', 'warning'); return; }
 document.getElementById('filename').value = session.selectedFile;
 showTab('editor');
 loadFile();
}

function createFile() {
 var name = prompt('New file name:');
 if (!name || !name.trim()) return;
 name = name.trim();
 postJSON('/create_file', {filename:name}).then(function(r) {
  if (!r.ok) return r.text().then(function(t) { throw new Error(t); });
  showStatus('Created ' + name, 'success');
  session.selectedFile = name;
  listFiles();
 }).catch(function(err) { showStatus('Error creating file: ' + err.message, 'error'); });
}

function deleteSelected() {
 var name = session.selectedFile;
 if (!name) { showStatus('Select a file first', 'warning'); return; }
 if (!confirm('Delete ' + name + '?')) return;
 postJSON('/delete_file', {filename:name}).then(function(r) {
  if (!r.ok) return r.text().then(function(t) { throw new Error(t); });
  showStatus('Deleted ' + name, 'success');
  session.selectedFile = null;
  listFiles();
 }).catch(function(err) { showStatus('Error deleting file: ' + err.message, 'error'); });
}
</script>
</body>
</html>`
